package listdiff

// Insertion 描述新序列中的一次插入。
// PreviousIndex 不为 NoIndex 时，表示该条目在旧序列中存在，但因顺序变化被当作新的可视项插入。
type Insertion[E any] struct {
	Index         int
	Entry         E
	PreviousIndex int
}

// Update 描述同一逻辑条目的内容变化，Index 为新序列位置，PreviousIndex 为旧序列位置。
type Update[E any] struct {
	Index         int
	Entry         E
	PreviousIndex int
}

// Script 是旧序列到新序列的编辑脚本。
//
// 应用顺序：按 Deletions（旧下标，降序）删除，再按 Insertions（新下标，升序）插入，最后替换 Updates。
type Script[E any] struct {
	Deletions  []int
	Insertions []Insertion[E]
	Updates    []Update[E]
}

// Empty 报告脚本是否不包含任何操作。
func (s Script[E]) Empty() bool {
	return len(s.Deletions) == 0 && len(s.Insertions) == 0 && len(s.Updates) == 0
}

// Len 返回操作总数。
func (s Script[E]) Len() int {
	return len(s.Deletions) + len(s.Insertions) + len(s.Updates)
}

// Moves 返回带 PreviousIndex 的插入数量（即因重排而重建的条目）。
func (s Script[E]) Moves() int {
	n := 0
	for _, ins := range s.Insertions {
		if ins.PreviousIndex != NoIndex {
			n++
		}
	}
	return n
}

// Diff 计算 prev -> next 的编辑脚本。两个序列都必须已排序。
//
// StableID 重复时先出现者生效：旧序列中后出现的重复项被删除，新序列中后出现的重复项作为插入。
// 匹配项中旧下标构成最长递增子序列的部分原地保留（内容变化则更新），其余匹配项作为
// 删除 + 带 PreviousIndex 的插入，从而保证脚本应用后得到 next。
func Diff[E Entry[E]](prev, next []E) Script[E] {
	oldIndex := make(map[string]int, len(prev))
	for i, e := range prev {
		id := e.StableID()
		if _, dup := oldIndex[id]; dup {
			continue
		}
		oldIndex[id] = i
	}

	consumed := make([]bool, len(prev))
	matched := make([]int, len(next))
	var pairs []int
	for j, e := range next {
		i, ok := oldIndex[e.StableID()]
		if !ok || consumed[i] {
			matched[j] = NoIndex
			continue
		}
		consumed[i] = true
		matched[j] = i
		pairs = append(pairs, j)
	}

	order := make([]int, len(pairs))
	for k, j := range pairs {
		order[k] = matched[j]
	}
	stays := make([]bool, len(prev))
	for k, keep := range longestIncreasing(order) {
		if keep {
			stays[order[k]] = true
		}
	}

	var script Script[E]
	for i := len(prev) - 1; i >= 0; i-- {
		if !stays[i] {
			script.Deletions = append(script.Deletions, i)
		}
	}
	for j, e := range next {
		i := matched[j]
		switch {
		case i == NoIndex:
			script.Insertions = append(script.Insertions, Insertion[E]{Index: j, Entry: e, PreviousIndex: NoIndex})
		case stays[i]:
			if !prev[i].Equal(e) {
				script.Updates = append(script.Updates, Update[E]{Index: j, Entry: e, PreviousIndex: i})
			}
		default:
			script.Insertions = append(script.Insertions, Insertion[E]{Index: j, Entry: e, PreviousIndex: i})
		}
	}
	return script
}

// longestIncreasing 标记 seq 中构成一条最长严格递增子序列的位置。
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}
	tails := make([]int, 0, len(seq))
	back := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			back[i] = tails[lo-1]
		} else {
			back[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = back[i] {
		keep[i] = true
	}
	return keep
}
