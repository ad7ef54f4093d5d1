package listview

// State 是一个屏幕生命周期内唯一的已提交状态，每次提交整体替换。
type State struct {
	Entries        []Entry
	CanLoadEarlier bool
	Seq            uint64
	Focus          string
	Overlay        Overlay
}

// OverlaySwap 描述覆盖层的切换，供宿主做进入/退出动画。
type OverlaySwap struct {
	Prev Overlay
	Next Overlay
}

// Applied 描述一次提交的结果。
type Applied struct {
	Seq       uint64
	Dropped   bool
	Deletions []Deletion
	Inserted  []int
	Updated   []int
	Flags     Flags
	Overlay   *OverlaySwap
	// FocusIndex 为本次提交解析出的焦点位置，没有时为 -1。
	FocusIndex int
	FirstPaint bool
}

// Changed 报告提交是否改动了可视项。
func (a Applied) Changed() bool {
	return len(a.Deletions) > 0 || len(a.Inserted) > 0 || len(a.Updated) > 0
}
