package listview

// Consumer 接收列表引擎的回调，所有回调都在协调 goroutine 上调用。
type Consumer interface {
	OnVisibleRangeChanged(first, last int)
	OnReadyForFirstPaint()
	OnPaginationNeeded()
	OnFocusApplied(tag string, index int)
}

// CommitObserver 是可选接口：Consumer 实现它时，每次提交后收到统计。
type CommitObserver interface {
	OnCommit(seq uint64, deletions, insertions, updates, length int)
}

// ConsumerFuncs 用函数字段实现 Consumer，未设置的回调被忽略。
type ConsumerFuncs struct {
	VisibleRangeChanged func(first, last int)
	ReadyForFirstPaint  func()
	PaginationNeeded    func()
	FocusApplied        func(tag string, index int)
}

func (f ConsumerFuncs) OnVisibleRangeChanged(first, last int) {
	if f.VisibleRangeChanged != nil {
		f.VisibleRangeChanged(first, last)
	}
}

func (f ConsumerFuncs) OnReadyForFirstPaint() {
	if f.ReadyForFirstPaint != nil {
		f.ReadyForFirstPaint()
	}
}

func (f ConsumerFuncs) OnPaginationNeeded() {
	if f.PaginationNeeded != nil {
		f.PaginationNeeded()
	}
}

func (f ConsumerFuncs) OnFocusApplied(tag string, index int) {
	if f.FocusApplied != nil {
		f.FocusApplied(tag, index)
	}
}

// Consumers 把回调依次转发给多个 Consumer。
type Consumers []Consumer

func (cs Consumers) OnVisibleRangeChanged(first, last int) {
	for _, c := range cs {
		c.OnVisibleRangeChanged(first, last)
	}
}

func (cs Consumers) OnReadyForFirstPaint() {
	for _, c := range cs {
		c.OnReadyForFirstPaint()
	}
}

func (cs Consumers) OnPaginationNeeded() {
	for _, c := range cs {
		c.OnPaginationNeeded()
	}
}

func (cs Consumers) OnFocusApplied(tag string, index int) {
	for _, c := range cs {
		c.OnFocusApplied(tag, index)
	}
}

func (cs Consumers) OnCommit(seq uint64, deletions, insertions, updates, length int) {
	for _, c := range cs {
		if o, ok := c.(CommitObserver); ok {
			o.OnCommit(seq, deletions, insertions, updates, length)
		}
	}
}
