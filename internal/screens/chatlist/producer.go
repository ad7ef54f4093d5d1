package chatlist

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"chatview/internal/listdiff"
	"chatview/internal/listview"
	"chatview/internal/logger"
	"github.com/sahilm/fuzzy"
)

// EmptySearchOverlay 是搜索无结果时覆盖层的 ID。
const EmptySearchOverlay = "search-empty"

// PushFunc 把快照交给列表引擎，通常是 (*listview.Screen).Push。
type PushFunc func(ctx context.Context, s listview.Snapshot) error

// Producer 持有会话集合，每次变化后生成完整快照。
//
// push 在持锁状态下调用，保证快照顺序与状态变化顺序一致。
type Producer struct {
	mu    sync.Mutex
	chats map[string]Chat
	query string
	args  listview.Args
	focus string
	now   func() time.Time
	push  PushFunc
	log   *logger.LogEntry
}

// ProducerOptions 配置 Producer。
type ProducerOptions struct {
	Args   listview.Args
	Now    func() time.Time
	Logger *logger.LogEntry
}

func NewProducer(opts ProducerOptions, push PushFunc) *Producer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("chatlist")
	}
	return &Producer{
		chats: make(map[string]Chat),
		args:  opts.Args,
		now:   now,
		push:  push,
		log:   log,
	}
}

// Upsert 新增或替换会话。
func (p *Producer) Upsert(ctx context.Context, chats ...Chat) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range chats {
		if c.ID == "" {
			return fmt.Errorf("chat without id")
		}
		p.chats[c.ID] = c
	}
	return p.publishLocked(ctx)
}

// Remove 删除会话，未知 ID 被忽略。
func (p *Producer) Remove(ctx context.Context, ids ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		delete(p.chats, id)
	}
	return p.publishLocked(ctx)
}

// MarkRead 清空会话未读数。
func (p *Producer) MarkRead(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.chats[id]
	if !ok || c.Unread == 0 {
		return nil
	}
	c.Unread = 0
	p.chats[id] = c
	return p.publishLocked(ctx)
}

// SetQuery 设置搜索词，空串表示不过滤。
func (p *Producer) SetQuery(ctx context.Context, query string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	query = strings.TrimSpace(query)
	if query == p.query {
		return nil
	}
	p.query = query
	return p.publishLocked(ctx)
}

// SetArgs 更新展示参数（宽度、主题等）。
func (p *Producer) SetArgs(ctx context.Context, args listview.Args) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.args = args
	return p.publishLocked(ctx)
}

// Focus 请求把光标移到指定会话；会话尚未出现时由引擎保留请求。
func (p *Producer) Focus(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focus = id
	return p.publishLocked(ctx)
}

// Chat 返回指定会话。
func (p *Producer) Chat(id string) (Chat, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.chats[id]
	return c, ok
}

// Len 返回会话总数（不受搜索影响）。
func (p *Producer) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.chats)
}

// Snapshot 返回当前状态对应的快照，不推送。
func (p *Producer) Snapshot() listview.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Producer) publishLocked(ctx context.Context) error {
	snap := p.snapshotLocked()
	p.focus = ""
	if p.push == nil {
		return nil
	}
	if err := p.push(ctx, snap); err != nil {
		return fmt.Errorf("publish chat list: %w", err)
	}
	p.log.WithFields(logger.Fields{
		"entries": len(snap.Entries),
		"query":   p.query,
		"overlay": snap.Overlay.ID,
	}).Debug("chat list snapshot")
	return nil
}

func (p *Producer) snapshotLocked() listview.Snapshot {
	now := p.now()
	all := make([]Chat, 0, len(p.chats))
	for _, c := range p.chats {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b Chat) int { return strings.Compare(a.ID, b.ID) })

	rows := make([]Row, 0, len(all))
	if p.query == "" {
		for _, c := range all {
			rows = append(rows, Row{Chat: c, Now: now})
		}
	} else {
		for _, m := range fuzzy.FindFrom(p.query, titles(all)) {
			rows = append(rows, Row{Chat: all[m.Index], Matched: m.MatchedIndexes, Now: now})
		}
	}

	entries := make([]listview.Entry, 0, len(rows)+1)
	pinned := 0
	for _, r := range rows {
		if r.Chat.Pinned {
			pinned++
		}
		entries = append(entries, r)
	}
	if pinned > 0 {
		entries = append(entries, PinnedHeader{Count: pinned})
	}
	slices.SortFunc(entries, listdiff.Compare[listview.Entry])

	snap := listview.Snapshot{
		Entries: entries,
		Args:    p.args,
		Flags:   listview.Flags{AnimateInsertions: true},
		Focus:   p.focus,
	}
	if p.query != "" && len(rows) == 0 {
		snap.Overlay = listview.Overlay{
			ID:    EmptySearchOverlay,
			Title: p.args.String("chatlist.no_results", "No results"),
			Body:  fmt.Sprintf("No chats match %q", p.query),
		}
	}
	return snap
}

type titles []Chat

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }
