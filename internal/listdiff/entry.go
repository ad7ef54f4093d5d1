// Package listdiff 计算两个有序条目序列之间的编辑脚本。
//
// 该包是纯函数：不持有状态、不记录日志，可在任意 goroutine 上调用。
package listdiff

// Entry 是可被 diff 的行描述。
//
// 同一序列中的条目必须已按 Less 排序（先 Section，再段内顺序），StableID 在同一序列中唯一。
// StableID 相同但 Equal 为 false 视为更新；两者都相同视为无变化。
type Entry[E any] interface {
	Section() int32
	StableID() string
	Less(other E) bool
	Equal(other E) bool
}

// NoIndex 表示 Insertion.PreviousIndex 为空。
const NoIndex = -1
