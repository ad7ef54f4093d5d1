// Package listview 把有序条目序列的变化转成可提交的渲染过渡。
//
// 数据流：生产者快照 -> Reconciler（diff + Build）-> ConstructionQueue（并发构造、按序释放）
// -> 协调 goroutine 上的 Coordinator.Commit。只有协调 goroutine 读写可视项列表与状态。
package listview

import (
	"strings"

	"chatview/internal/listdiff"
)

// Entry 是屏幕提供的行描述：可比较、可排序，并能构造自己的可视项。
//
// Less/Equal 的参数为任意 Entry；类型不同的条目 Equal 必须返回 false。
type Entry interface {
	Section() int32
	StableID() string
	Less(other Entry) bool
	Equal(other Entry) bool
	MakeItem(args Args) (*Item, error)
}

var _ listdiff.Entry[Entry] = Entry(nil)

// LessByID 是段内没有其他排序键时的兜底比较。
func LessByID(a, b Entry) bool {
	return strings.Compare(a.StableID(), b.StableID()) < 0
}

func indexOf(entries []Entry, id string) int {
	for i, e := range entries {
		if e.StableID() == id {
			return i
		}
	}
	return -1
}
