package listview

import (
	"slices"
	"time"

	"chatview/internal/listdiff"
	"chatview/internal/logger"
)

// Options 配置 Coordinator。
type Options struct {
	// LookaheadThreshold 为距较早一端多少行以内时请求分页。
	LookaheadThreshold int
	// PaginationCooldown 为两次分页请求的最小间隔，0 表示不限制。
	PaginationCooldown time.Duration
	// Debug 时每次提交后校验 Apply(Base, Script) == Target。
	Debug  bool
	Logger *logger.LogEntry
	Now    func() time.Time
}

type rangeKey struct {
	first, last int
	seq         uint64
}

// Coordinator 持有可视项列表和已提交状态。除构造外，所有方法只能在协调 goroutine 上调用。
type Coordinator struct {
	consumer Consumer
	opts     Options
	log      *logger.LogEntry

	items []*Item
	state State

	firstPainted bool
	closed       bool

	hasRange     bool
	first, last  int
	checkedKey   rangeKey
	checked      bool
	suppressed   bool
	lastPageAt   time.Time
	pendingFocus string
	appliedFocus string
}

// NewCoordinator 创建 Coordinator，consumer 可以为 nil。
func NewCoordinator(consumer Consumer, opts Options) *Coordinator {
	if consumer == nil {
		consumer = ConsumerFuncs{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("coordinator")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{consumer: consumer, opts: opts, log: opts.Logger}
}

// Commit 把一个构造完成的过渡应用到可视项列表，并在同一调用内替换状态。
// 顺序错误或关闭后的提交会被丢弃并返回 Dropped。
func (c *Coordinator) Commit(r Ready) Applied {
	t := r.Transition
	if c.closed || t == nil {
		return Applied{Dropped: true, FocusIndex: -1}
	}
	log := c.log.WithField("seq", t.Seq)
	if want := c.state.Seq + 1; t.Seq != want {
		log.WithField("want", want).Warn("dropping out-of-order transition")
		return Applied{Seq: t.Seq, Dropped: true, FocusIndex: -1}
	}
	if len(t.Base) != len(c.items) || len(r.Items) != len(t.Ops) {
		log.WithFields(logger.Fields{
			"base":  len(t.Base),
			"items": len(c.items),
			"ops":   len(t.Ops),
			"built": len(r.Items),
		}).Error("dropping transition that does not match the live list")
		return Applied{Seq: t.Seq, Dropped: true, FocusIndex: -1}
	}

	applied := Applied{Seq: t.Seq, Deletions: t.Deletions, Flags: t.Flags, FocusIndex: -1}
	for _, d := range t.Deletions {
		c.items = slices.Delete(c.items, d.Index, d.Index+1)
	}
	for k, op := range t.Ops {
		if op.Kind != OpInsert {
			continue
		}
		c.items = slices.Insert(c.items, op.Index, r.Items[k])
		applied.Inserted = append(applied.Inserted, op.Index)
	}
	for k, op := range t.Ops {
		if op.Kind != OpUpdate {
			continue
		}
		c.items[op.Index] = r.Items[k]
		applied.Updated = append(applied.Updated, op.Index)
	}

	prev := c.state
	c.state = State{
		Entries:        t.Target,
		CanLoadEarlier: t.CanLoadEarlier,
		Seq:            t.Seq,
		Focus:          t.Focus,
		Overlay:        t.Overlay,
	}
	if c.opts.Debug {
		c.verify(t)
	}
	log.WithFields(logger.Fields{
		"deleted":  len(applied.Deletions),
		"inserted": len(applied.Inserted),
		"updated":  len(applied.Updated),
		"len":      len(c.items),
	}).Debug("transition committed")
	if o, ok := c.consumer.(CommitObserver); ok {
		o.OnCommit(t.Seq, len(applied.Deletions), len(applied.Inserted), len(applied.Updated), len(c.items))
	}

	if !c.firstPainted {
		c.firstPainted = true
		applied.FirstPaint = true
		c.consumer.OnReadyForFirstPaint()
	}
	c.checkPagination()

	if prev.Overlay != t.Overlay {
		applied.Overlay = &OverlaySwap{Prev: prev.Overlay, Next: t.Overlay}
	}
	if t.Focus != "" && t.Focus != c.appliedFocus {
		c.pendingFocus = t.Focus
	}
	if c.pendingFocus != "" {
		if idx := indexOf(c.state.Entries, c.pendingFocus); idx >= 0 {
			tag := c.pendingFocus
			c.pendingFocus = ""
			c.appliedFocus = tag
			applied.FocusIndex = idx
			c.consumer.OnFocusApplied(tag, idx)
		}
	}
	return applied
}

// SetVisibleRange 报告当前可见的闭区间 [first, last]；空列表用 last = first-1 表示。
func (c *Coordinator) SetVisibleRange(first, last int) {
	if c.closed {
		return
	}
	if first < 0 || last < first-1 {
		c.log.WithFields(logger.Fields{"first": first, "last": last}).Warn("ignoring invalid visible range")
		return
	}
	if c.hasRange && c.first == first && c.last == last {
		if c.suppressed {
			c.checkPagination()
		}
		return
	}
	c.hasRange = true
	c.first, c.last = first, last
	c.consumer.OnVisibleRangeChanged(first, last)
	c.checkPagination()
}

// checkPagination 对同一 (可见范围, 已提交序号) 最多判断一次。
// 被冷却压下的请求不算判断过，同一范围再次报告时会重试。
func (c *Coordinator) checkPagination() {
	if !c.hasRange {
		return
	}
	key := rangeKey{first: c.first, last: c.last, seq: c.state.Seq}
	if c.checked && key == c.checkedKey && !c.suppressed {
		return
	}
	c.checked = true
	c.checkedKey = key
	c.suppressed = false
	if !c.state.CanLoadEarlier || c.first > c.opts.LookaheadThreshold {
		return
	}
	now := c.opts.Now()
	if cd := c.opts.PaginationCooldown; cd > 0 && !c.lastPageAt.IsZero() && now.Sub(c.lastPageAt) < cd {
		c.suppressed = true
		c.log.Debug("pagination suppressed by cooldown")
		return
	}
	c.lastPageAt = now
	c.consumer.OnPaginationNeeded()
}

// PaginationRetryAt 在有请求被冷却压下时返回冷却结束的时间；宿主应在该时间重新报告可见范围。
func (c *Coordinator) PaginationRetryAt() (time.Time, bool) {
	if c.closed || !c.suppressed {
		return time.Time{}, false
	}
	return c.lastPageAt.Add(c.opts.PaginationCooldown), true
}

func (c *Coordinator) verify(t *Transition) {
	got, err := listdiff.Apply(t.Base, t.Script)
	if err == nil && len(got) != len(t.Target) {
		err = errLengthMismatch
	}
	if err == nil {
		for i := range got {
			if got[i].StableID() != t.Target[i].StableID() || !got[i].Equal(t.Target[i]) {
				err = errEntryMismatch
				break
			}
		}
	}
	if err == nil {
		for i, it := range c.items {
			if it.ID != t.Target[i].StableID() {
				err = errItemMismatch
				break
			}
		}
	}
	if err != nil {
		c.log.WithField("seq", t.Seq).Errorf("commit verification failed: %v", err)
	}
}

// Items 返回当前可视项列表，调用方不得修改。
func (c *Coordinator) Items() []*Item {
	return c.items
}

// Len 返回可视项数量。
func (c *Coordinator) Len() int {
	return len(c.items)
}

// Item 返回第 i 个可视项，越界时返回 nil。
func (c *Coordinator) Item(i int) *Item {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// State 返回已提交状态。
func (c *Coordinator) State() State {
	return c.state
}

// PendingFocus 返回尚未解析的焦点标签。
func (c *Coordinator) PendingFocus() string {
	return c.pendingFocus
}

// Closed 报告是否已关闭。
func (c *Coordinator) Closed() bool {
	return c.closed
}

// Close 丢弃状态与可视项，之后的提交全部被丢弃。
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.items = nil
	c.state = State{}
	c.pendingFocus = ""
	c.suppressed = false
}
