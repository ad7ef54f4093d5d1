package listdiff

import "slices"

// Compare 先按 Section 再按 Less 比较两个条目。
func Compare[E Entry[E]](a, b E) int {
	if sa, sb := a.Section(), b.Section(); sa != sb {
		if sa < sb {
			return -1
		}
		return 1
	}
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// IsSorted 报告序列是否满足 (Section, Less) 顺序。
func IsSorted[E Entry[E]](s []E) bool {
	for i := 1; i < len(s); i++ {
		if Compare(s[i], s[i-1]) < 0 {
			return false
		}
	}
	return true
}

// Duplicates 返回序列中重复出现的 StableID（按首次重复的位置排列）。
func Duplicates[E Entry[E]](s []E) []string {
	seen := make(map[string]bool, len(s))
	var dups []string
	for _, e := range s {
		id := e.StableID()
		switch reported, ok := seen[id]; {
		case !ok:
			seen[id] = false
		case !reported:
			seen[id] = true
			dups = append(dups, id)
		}
	}
	return dups
}

// Normalize 返回稳定排序并去重（排序后先出现者保留）后的副本。
// 用于生产者违反排序/唯一性约定时的兜底，代价是一次额外的完整排序。
func Normalize[E Entry[E]](s []E) []E {
	out := slices.Clone(s)
	slices.SortStableFunc(out, Compare[E])
	seen := make(map[string]struct{}, len(out))
	return slices.DeleteFunc(out, func(e E) bool {
		id := e.StableID()
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
		return false
	})
}
