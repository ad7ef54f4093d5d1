package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"chatview/internal/events"
	"chatview/internal/listdiff"
	"chatview/internal/logger"
)

// Snapshot 是生产者在后台生成的一次完整列表描述。
type Snapshot struct {
	Entries        []Entry
	CanLoadEarlier bool
	Args           Args
	// AnimateInsertions/Crossfade 生效；Synchronous 由引擎决定。
	Flags   Flags
	Focus   string
	Overlay Overlay
}

// ReconcilerOptions 配置 Reconciler。
type ReconcilerOptions struct {
	InboxSize int
	// Debug 时生产者违反排序/唯一性约定直接 panic（在流水线 goroutine 上）。
	Debug  bool
	Logger *logger.LogEntry
}

// Reconciler 在单个流水线 goroutine 上把快照转成过渡并交给 enqueue。
type Reconciler struct {
	inbox   *events.Inbox[Snapshot]
	enqueue func(*Transition) error
	debug   bool
	log     *logger.LogEntry

	prev    []Entry
	prevKey string
	seq     uint64

	startOnce sync.Once
	done      chan struct{}
}

// NewReconciler 创建 Reconciler，需调用 Start 启动流水线。
func NewReconciler(opts ReconcilerOptions, enqueue func(*Transition) error) *Reconciler {
	log := opts.Logger
	if log == nil {
		log = logger.Named("reconciler")
	}
	inbox := events.NewInbox[Snapshot](opts.InboxSize)
	inbox.SetLogger(log)
	inbox.SetDescriber(func(s Snapshot) logger.Fields {
		return logger.Fields{"entries": len(s.Entries), "can_load_earlier": s.CanLoadEarlier}
	})
	return &Reconciler{
		inbox:   inbox,
		enqueue: enqueue,
		debug:   opts.Debug,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start 启动流水线 goroutine，ctx 取消或 Close 后退出。
func (r *Reconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.run(ctx)
	})
}

// Push 投递一个快照。
func (r *Reconciler) Push(ctx context.Context, s Snapshot) error {
	if err := r.inbox.Push(ctx, s); err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}
	return nil
}

// Close 关闭收件箱，尚未处理的快照被丢弃。
func (r *Reconciler) Close() {
	r.inbox.Close()
}

// Done 在流水线 goroutine 退出后关闭。
func (r *Reconciler) Done() <-chan struct{} {
	return r.done
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.done)
	for {
		s, err := r.inbox.Receive(ctx)
		if err != nil {
			if !errors.Is(err, events.ErrInboxClosed) && !errors.Is(err, context.Canceled) {
				r.log.Warnf("reconciler stopped: %v", err)
			}
			return
		}
		t := r.prepare(s)
		if err := r.enqueue(t); err != nil {
			if errors.Is(err, ErrQueueClosed) {
				return
			}
			r.log.WithField("seq", t.Seq).Errorf("enqueue transition: %v", err)
		}
	}
}

// prepare 校验快照、与上一快照做 diff 并生成过渡。
func (r *Reconciler) prepare(s Snapshot) *Transition {
	entries := r.validate(s.Entries)
	script := listdiff.Diff(r.prev, entries)
	key := s.Args.Key()
	refresh := r.seq > 0 && key != r.prevKey

	r.seq++
	t := Build(r.seq, r.prev, entries, script, s.Args, BuildOptions{
		Flags:          Flags{AnimateInsertions: s.Flags.AnimateInsertions, Crossfade: s.Flags.Crossfade},
		CanLoadEarlier: s.CanLoadEarlier,
		Focus:          s.Focus,
		Overlay:        s.Overlay,
		Refresh:        refresh,
	})
	r.log.WithFields(logger.Fields{
		"seq":        t.Seq,
		"deletions":  len(script.Deletions),
		"insertions": len(script.Insertions),
		"updates":    len(t.Script.Updates),
		"moves":      script.Moves(),
		"refresh":    refresh,
	}).Debug("transition built")

	r.prev = entries
	r.prevKey = key
	return t
}

func (r *Reconciler) validate(entries []Entry) []Entry {
	sorted := listdiff.IsSorted(entries)
	dups := listdiff.Duplicates(entries)
	if sorted && len(dups) == 0 {
		return entries
	}
	msg := "producer snapshot violates ordering contract"
	if len(dups) > 0 {
		msg = fmt.Sprintf("producer snapshot has duplicate ids: %s", strings.Join(dups, ", "))
	}
	if r.debug {
		panic(msg)
	}
	r.log.WithFields(logger.Fields{"sorted": sorted, "duplicates": len(dups)}).Warn(msg + "; normalizing")
	return listdiff.Normalize(entries)
}
