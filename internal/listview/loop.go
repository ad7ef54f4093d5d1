package listview

import (
	"context"
	"sync"
)

// Loop 是无界面的协调 goroutine：投递的函数按顺序串行执行。
type Loop struct {
	tasks     chan func()
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewLoop 创建 Loop，buffer 为任务队列长度。
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start 启动协调 goroutine。
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post 投递任务；Loop 已停止时返回 false。
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stop:
		return false
	default:
	}
	select {
	case <-l.stop:
		return false
	case l.tasks <- fn:
		return true
	}
}

// Call 投递任务并等待其执行完毕。
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() { fn(); close(finished) }) {
		return ErrScreenClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attach 把屏幕的结果转交到 Loop 上提交，onApplied 在协调 goroutine 上调用（可为 nil）。
// 屏幕关闭后在 Loop 上释放协调器。
func (l *Loop) Attach(s *Screen, onApplied func(Applied)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case r := <-s.Ready():
				l.Post(func() {
					a := s.Commit(r)
					if onApplied != nil {
						onApplied(a)
					}
				})
			case <-s.Done():
				l.Post(s.CloseCoordinator)
				return
			case <-l.stop:
				return
			}
		}
	}()
}

// Stop 停止 Loop，未执行的任务被丢弃。
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	l.wg.Wait()
	l.startOnce.Do(func() { close(l.done) })
	<-l.done
}
