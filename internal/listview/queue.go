package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"chatview/internal/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrQueueClosed 表示构造队列已关闭。
var ErrQueueClosed = errors.New("construction queue closed")

// Ready 是构造完成、等待提交的过渡。Items 与 Transition.Ops 一一对应。
type Ready struct {
	Transition *Transition
	Items      []*Item
	Elapsed    time.Duration
}

// QueueOptions 配置构造队列。
type QueueOptions struct {
	Workers int
	Cache   *Cache
	Logger  *logger.LogEntry
}

// ConstructionQueue 并发运行过渡的工厂，并严格按入队顺序把结果交给 sink。
//
// 同一过渡的全部工厂完成后才会释放；后入队的过渡即使先完成也要等待前面的过渡。
// sink 在单个 goroutine 上串行调用，Close 返回后不再调用。
type ConstructionQueue struct {
	sem   *semaphore.Weighted
	cache *Cache
	sink  func(Ready)
	log   *logger.LogEntry

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	order  []uint64
	done   map[uint64]Ready
	closed bool

	flushMu sync.Mutex
	wg      sync.WaitGroup
}

// NewConstructionQueue 创建构造队列。
func NewConstructionQueue(opts QueueOptions, sink func(Ready)) *ConstructionQueue {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("queue")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ConstructionQueue{
		sem:    semaphore.NewWeighted(int64(workers)),
		cache:  opts.Cache,
		sink:   sink,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   map[uint64]Ready{},
	}
}

// Enqueue 提交一个过渡。Synchronous 过渡在调用方 goroutine 上构造完再返回。
func (q *ConstructionQueue) Enqueue(t *Transition) error {
	if t == nil {
		return errors.New("nil transition")
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.order = append(q.order, t.Seq)
	q.wg.Add(1)
	q.mu.Unlock()

	if t.Flags.Synchronous {
		q.construct(t)
		return nil
	}
	go q.construct(t)
	return nil
}

// Pending 返回已入队但尚未交付的过渡数量。
func (q *ConstructionQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Close 停止队列：未开始的工厂被跳过，正在运行的工厂跑完后结果被丢弃。
// 返回时 sink 不会再被调用。
func (q *ConstructionQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	dropped := len(q.order)
	q.order = nil
	q.done = map[uint64]Ready{}
	q.mu.Unlock()

	q.cancel()
	// 等待正在进行的 sink 调用结束。
	q.flushMu.Lock()
	q.flushMu.Unlock()
	if dropped > 0 {
		q.log.WithField("dropped", dropped).Debug("construction queue closed with pending transitions")
	}
}

// Wait 等待所有已启动的构造 goroutine 退出。与 Enqueue 并发时应在 Close 之后调用。
func (q *ConstructionQueue) Wait() {
	q.wg.Wait()
}

func (q *ConstructionQueue) construct(t *Transition) {
	defer q.wg.Done()
	start := time.Now()
	items := make([]*Item, len(t.Ops))
	g, gctx := errgroup.WithContext(q.ctx)
	for i, op := range t.Ops {
		g.Go(func() error {
			if err := q.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer q.sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = q.build(op, t.Args)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		q.log.WithField("seq", t.Seq).Debugf("transition construction abandoned: %v", err)
		return
	}

	placeholders := 0
	for _, it := range items {
		if it.Placeholder {
			placeholders++
		}
	}
	fields := logger.Fields{
		"seq":     t.Seq,
		"ops":     len(t.Ops),
		"elapsed": time.Since(start).String(),
	}
	if placeholders > 0 {
		fields["placeholders"] = placeholders
		q.log.WithFields(fields).Warn("transition constructed with placeholders")
	} else {
		q.log.WithFields(fields).Debug("transition constructed")
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.done[t.Seq] = Ready{Transition: t, Items: items, Elapsed: time.Since(start)}
	q.mu.Unlock()
	q.flush()
}

func (q *ConstructionQueue) build(op Op, args Args) *Item {
	key := args.Key()
	if it, ok := q.cache.Get(op.Entry, key); ok {
		return it
	}
	it := op.Make()
	if it.Placeholder {
		q.log.WithField("id", it.ID).Warnf("item construction failed: %v", it.Err)
		return it
	}
	q.cache.Put(op.Entry, key, it)
	return it
}

// flush 按入队顺序交付所有已完成的队首过渡。
func (q *ConstructionQueue) flush() {
	q.flushMu.Lock()
	defer q.flushMu.Unlock()
	for {
		q.mu.Lock()
		if q.closed || len(q.order) == 0 {
			q.mu.Unlock()
			return
		}
		head := q.order[0]
		r, ok := q.done[head]
		if !ok {
			q.mu.Unlock()
			return
		}
		delete(q.done, head)
		q.order = q.order[1:]
		q.mu.Unlock()
		q.sink(r)
	}
}
