package events

import "time"

// EventType 描述总线上分发的事件类型。
type EventType string

const (
	EventFirstPaint       EventType = "list.first_paint"
	EventPaginationNeeded EventType = "list.pagination_needed"
	EventVisibleRange     EventType = "list.visible_range"
	EventFocusApplied     EventType = "list.focus_applied"
	EventCommit           EventType = "list.commit"
)

// VisibleRange 是 EventVisibleRange 的载荷，First/Last 为闭区间。
type VisibleRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// FocusApplied 是 EventFocusApplied 的载荷。
type FocusApplied struct {
	Tag   string `json:"tag"`
	Index int    `json:"index"`
}

// CommitSummary 是 EventCommit 的载荷。
type CommitSummary struct {
	Deletions  int `json:"deletions"`
	Insertions int `json:"insertions"`
	Updates    int `json:"updates"`
	Len        int `json:"len"`
}

// Event 是总线中传递的唯一消息格式，Payload 的具体结构由 Type 决定。
type Event struct {
	Type      EventType
	Screen    string
	Seq       uint64
	Timestamp time.Time
	Payload   any
}
