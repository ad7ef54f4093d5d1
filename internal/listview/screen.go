package listview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chatview/internal/config"
	"chatview/internal/logger"
	"github.com/google/uuid"
)

// ScreenOptions 汇总一个屏幕的引擎参数。
type ScreenOptions struct {
	Name               string
	Workers            int
	InboxSize          int
	CacheSize          int
	LookaheadThreshold int
	PaginationCooldown time.Duration
	Debug              bool
	Logger             *logger.LogEntry
	// Now 为分页冷却使用的时钟，nil 时使用 time.Now。
	Now func() time.Time
}

// OptionsFromConfig 把 [engine] 配置转换为屏幕参数。
func OptionsFromConfig(name string, cfg config.Engine) (ScreenOptions, error) {
	if err := cfg.Validate(); err != nil {
		return ScreenOptions{}, fmt.Errorf("engine config: %w", err)
	}
	cooldown, err := cfg.Cooldown()
	if err != nil {
		return ScreenOptions{}, err
	}
	return ScreenOptions{
		Name:               name,
		Workers:            cfg.Workers,
		InboxSize:          cfg.InboxSize,
		CacheSize:          cfg.CacheSize,
		LookaheadThreshold: cfg.LookaheadThreshold,
		PaginationCooldown: cooldown,
		Debug:              cfg.Debug,
	}, nil
}

// Screen 把 Reconciler、ConstructionQueue 与 Coordinator 组装成一个屏幕的列表引擎。
//
// 宿主在协调 goroutine 上从 Ready() 读取结果并调用 Commit。
type Screen struct {
	ID   string
	Name string

	reconciler  *Reconciler
	queue       *ConstructionQueue
	coordinator *Coordinator
	cache       *Cache
	log         *logger.LogEntry

	ready     chan Ready
	done      chan struct{}
	closeOnce sync.Once
	cancel    context.CancelFunc
}

// NewScreen 创建并启动一个屏幕。ctx 取消等同于 Close 流水线。
func NewScreen(ctx context.Context, consumer Consumer, opts ScreenOptions) *Screen {
	id := uuid.NewString()
	base := opts.Logger
	if base == nil {
		base = logger.Named("listview")
	}
	log := base.WithFields(logger.Fields{"screen": opts.Name, "screen_id": id[:8]})

	runCtx, cancel := context.WithCancel(ctx)
	s := &Screen{
		ID:     id,
		Name:   opts.Name,
		cache:  NewCache(opts.CacheSize),
		log:    log,
		ready:  make(chan Ready),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	s.queue = NewConstructionQueue(QueueOptions{
		Workers: opts.Workers,
		Cache:   s.cache,
		Logger:  log.WithField("component", "queue"),
	}, s.deliver)
	s.reconciler = NewReconciler(ReconcilerOptions{
		InboxSize: opts.InboxSize,
		Debug:     opts.Debug,
		Logger:    log.WithField("component", "reconciler"),
	}, s.queue.Enqueue)
	s.coordinator = NewCoordinator(consumer, Options{
		LookaheadThreshold: opts.LookaheadThreshold,
		PaginationCooldown: opts.PaginationCooldown,
		Debug:              opts.Debug,
		Logger:             log.WithField("component", "coordinator"),
		Now:                opts.Now,
	})
	s.reconciler.Start(runCtx)
	log.Info("screen started")
	return s
}

func (s *Screen) deliver(r Ready) {
	select {
	case s.ready <- r:
	case <-s.done:
	}
}

// Push 投递生产者快照。
func (s *Screen) Push(ctx context.Context, snap Snapshot) error {
	select {
	case <-s.done:
		return ErrScreenClosed
	default:
	}
	return s.reconciler.Push(ctx, snap)
}

// Ready 返回已构造、按顺序等待提交的过渡。
func (s *Screen) Ready() <-chan Ready {
	return s.ready
}

// Done 在屏幕关闭时关闭。
func (s *Screen) Done() <-chan struct{} {
	return s.done
}

// Commit 必须在协调 goroutine 上调用。
// 屏幕关闭后收到的结果直接丢弃。
func (s *Screen) Commit(r Ready) Applied {
	select {
	case <-s.done:
		return Applied{Dropped: true, FocusIndex: -1}
	default:
	}
	return s.coordinator.Commit(r)
}

// SetVisibleRange 必须在协调 goroutine 上调用。
func (s *Screen) SetVisibleRange(first, last int) {
	s.coordinator.SetVisibleRange(first, last)
}

// Coordinator 返回屏幕的提交协调器。
func (s *Screen) Coordinator() *Coordinator {
	return s.coordinator
}

// Cache 返回屏幕的可视项缓存（可能为 nil）。
func (s *Screen) Cache() *Cache {
	return s.cache
}

// Close 拆除屏幕：停止流水线、丢弃未提交的过渡，之后不再产生任何结果。
// Coordinator 的状态需在协调 goroutine 上通过 CloseCoordinator 释放。
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.reconciler.Close()
		s.cancel()
		s.queue.Close()
		m := s.cache.Metrics()
		s.log.WithFields(logger.Fields{"cache_hits": m.Hits, "cache_misses": m.Misses}).Info("screen closed")
	})
}

// CloseCoordinator 在协调 goroutine 上释放可视项与状态。
func (s *Screen) CloseCoordinator() {
	s.coordinator.Close()
}
