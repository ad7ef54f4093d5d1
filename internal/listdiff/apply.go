package listdiff

import (
	"fmt"
	"slices"
)

// Apply 将脚本应用到 prev 的副本上并返回结果；prev 本身不被修改。
// 下标越界或删除顺序错误时返回错误而不是 panic。
func Apply[E any](prev []E, s Script[E]) ([]E, error) {
	out := slices.Clone(prev)
	last := len(prev)
	for _, i := range s.Deletions {
		if i < 0 || i >= len(out) || i >= last {
			return nil, fmt.Errorf("deletion index %d out of order or range (len %d)", i, len(out))
		}
		out = slices.Delete(out, i, i+1)
		last = i
	}
	for _, ins := range s.Insertions {
		if ins.Index < 0 || ins.Index > len(out) {
			return nil, fmt.Errorf("insertion index %d out of range (len %d)", ins.Index, len(out))
		}
		out = slices.Insert(out, ins.Index, ins.Entry)
	}
	for _, u := range s.Updates {
		if u.Index < 0 || u.Index >= len(out) {
			return nil, fmt.Errorf("update index %d out of range (len %d)", u.Index, len(out))
		}
		out[u.Index] = u.Entry
	}
	return out, nil
}

// ApplyFunc 以回调形式回放脚本，顺序与 Apply 相同。用于把脚本映射到非条目的并行列表（例如可视项）。
func ApplyFunc[E any](s Script[E], remove func(index int), insert func(ins Insertion[E]), update func(u Update[E])) {
	for _, i := range s.Deletions {
		if remove != nil {
			remove(i)
		}
	}
	for _, ins := range s.Insertions {
		if insert != nil {
			insert(ins)
		}
	}
	for _, u := range s.Updates {
		if update != nil {
			update(u)
		}
	}
}
