package adminlog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"chatview/internal/listview"
	"chatview/internal/logger"
)

// DefaultPageSize 是每次加载的记录条数。
const DefaultPageSize = 50

// PushFunc 把快照交给列表引擎。
type PushFunc func(ctx context.Context, s listview.Snapshot) error

// ProducerOptions 配置 Producer。
type ProducerOptions struct {
	PageSize int
	Logger   *logger.LogEntry
}

// Producer 持有已加载的记录窗口（按 ID 升序），按需向前翻页。
//
// 取数错误只投递到 Errors()，不会影响已提交的列表。
type Producer struct {
	store    *Store
	pageSize int
	push     PushFunc
	log      *logger.LogEntry

	mu             sync.Mutex
	loaded         []Action
	canLoadEarlier bool
	args           listview.Args
	argsSet        bool
	started        bool

	loading atomic.Bool
	errs    chan error
}

func NewProducer(store *Store, opts ProducerOptions, push PushFunc) *Producer {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("adminlog")
	}
	return &Producer{
		store:    store,
		pageSize: size,
		push:     push,
		log:      log,
		errs:     make(chan error, 8),
	}
}

// Errors 返回取数错误通道。
func (p *Producer) Errors() <-chan error {
	return p.errs
}

// Start 加载最新一页并推送首个快照。args 仅在此前没有调用过 SetArgs 时生效。
func (p *Producer) Start(ctx context.Context, args listview.Args) error {
	page, err := p.store.Latest(ctx, p.pageSize)
	if err != nil {
		p.report(err)
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.argsSet {
		p.args = args
	}
	p.started = true
	p.loaded = page
	p.canLoadEarlier = len(page) == p.pageSize
	return p.publishLocked(ctx)
}

// LoadEarlier 加载更早的一页。已有请求在进行时直接忽略；返回是否发起了请求。
func (p *Producer) LoadEarlier(ctx context.Context) bool {
	if !p.loading.CompareAndSwap(false, true) {
		return false
	}

	p.mu.Lock()
	if !p.canLoadEarlier || len(p.loaded) == 0 {
		p.loading.Store(false)
		p.mu.Unlock()
		return false
	}
	oldest := p.loaded[0].ID
	if err := p.publishLocked(ctx); err != nil {
		p.loading.Store(false)
		p.mu.Unlock()
		p.report(err)
		return true
	}
	p.mu.Unlock()

	page, err := p.store.Before(ctx, oldest, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading.Store(false)
	if err != nil {
		if perr := p.publishLocked(ctx); perr != nil {
			p.log.Warnf("publish after failed fetch: %v", perr)
		}
		p.report(err)
		return true
	}
	p.loaded = append(page, p.loaded...)
	p.canLoadEarlier = len(page) == p.pageSize
	if err := p.publishLocked(ctx); err != nil {
		p.report(err)
	}
	p.log.WithFields(logger.Fields{"fetched": len(page), "loaded": len(p.loaded)}).Debug("loaded earlier actions")
	return true
}

// Append 写入一条新记录并追加到窗口末尾。
func (p *Producer) Append(ctx context.Context, actor, action, detail string) (Action, error) {
	a, err := p.store.Append(ctx, actor, action, detail)
	if err != nil {
		return Action{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = append(p.loaded, a)
	return a, p.publishLocked(ctx)
}

// SetArgs 更新展示参数；Start 之前只记录参数。
func (p *Producer) SetArgs(ctx context.Context, args listview.Args) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.args = args
	p.argsSet = true
	if !p.started {
		return nil
	}
	return p.publishLocked(ctx)
}

// Loaded 返回已加载的记录数。
func (p *Producer) Loaded() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.loaded)
}

// CanLoadEarlier 报告是否还有更早的记录。
func (p *Producer) CanLoadEarlier() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canLoadEarlier
}

func (p *Producer) publishLocked(ctx context.Context) error {
	entries := make([]listview.Entry, 0, len(p.loaded)+1)
	switch {
	case p.loading.Load():
		entries = append(entries, Marker{Loading: true})
	case !p.canLoadEarlier:
		entries = append(entries, Marker{})
	}
	for _, a := range p.loaded {
		entries = append(entries, ActionEntry{Action: a})
	}
	if p.push == nil {
		return nil
	}
	if err := p.push(ctx, listview.Snapshot{
		Entries:        entries,
		CanLoadEarlier: p.canLoadEarlier,
		Args:           p.args,
		Flags:          listview.Flags{AnimateInsertions: true},
	}); err != nil {
		return fmt.Errorf("publish admin log: %w", err)
	}
	return nil
}

func (p *Producer) report(err error) {
	select {
	case p.errs <- err:
	default:
		p.log.Warnf("dropped admin log error: %v", err)
	}
}
