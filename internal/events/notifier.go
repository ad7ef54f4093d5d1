package events

import (
	"context"
	"time"
)

// Notifier 将列表引擎的回调转成总线事件，供任意数量的订阅者消费。
//
// 方法签名与 listview.Consumer 一致，可直接作为屏幕的 Consumer 使用。
type Notifier struct {
	bus    *Bus
	screen string
	ctx    context.Context
	seq    uint64
}

// NewNotifier 创建绑定到某个屏幕的通知器。
func NewNotifier(ctx context.Context, bus *Bus, screen string) *Notifier {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Notifier{bus: bus, screen: screen, ctx: ctx}
}

func (n *Notifier) OnVisibleRangeChanged(first, last int) {
	n.publish(EventVisibleRange, VisibleRange{First: first, Last: last})
}

func (n *Notifier) OnReadyForFirstPaint() {
	n.publish(EventFirstPaint, nil)
}

func (n *Notifier) OnPaginationNeeded() {
	n.publish(EventPaginationNeeded, nil)
}

func (n *Notifier) OnFocusApplied(tag string, index int) {
	n.publish(EventFocusApplied, FocusApplied{Tag: tag, Index: index})
}

// OnCommit 记录一次提交的统计并广播。
func (n *Notifier) OnCommit(seq uint64, deletions, insertions, updates, length int) {
	n.seq = seq
	n.publish(EventCommit, CommitSummary{
		Deletions:  deletions,
		Insertions: insertions,
		Updates:    updates,
		Len:        length,
	})
}

func (n *Notifier) publish(typ EventType, payload any) {
	if n == nil || n.bus == nil {
		return
	}
	// 丢弃与关闭都只影响观察者，不回传给引擎。
	_ = n.bus.Publish(n.ctx, Event{
		Type:      typ,
		Screen:    n.screen,
		Seq:       n.seq,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
