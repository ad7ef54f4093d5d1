package chatlist

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"testing"
	"time"

	"chatview/internal/listdiff"
	"chatview/internal/listview"
	"chatview/internal/logger"
)

type pushRecorder struct {
	mu    sync.Mutex
	snaps []listview.Snapshot
	err   error
}

func (r *pushRecorder) push(_ context.Context, s listview.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *pushRecorder) last(t *testing.T) listview.Snapshot {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		t.Fatalf("no snapshot pushed")
	}
	return r.snaps[len(r.snaps)-1]
}

func newTestProducer() (*Producer, *pushRecorder) {
	rec := &pushRecorder{}
	p := NewProducer(ProducerOptions{
		Args:   testArgs(),
		Now:    func() time.Time { return testNow },
		Logger: logger.Discard(),
	}, rec.push)
	return p, rec
}

func snapshotIDs(s listview.Snapshot) []string {
	ids := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		ids = append(ids, e.StableID())
	}
	return ids
}

func TestProducerPinnedHeaderOnlyWithPinnedRows(t *testing.T) {
	ctx := context.Background()
	p, rec := newTestProducer()

	if err := p.Upsert(ctx, Chat{ID: "a", Title: "Alpha", LastAt: testNow}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got := snapshotIDs(rec.last(t)); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("entries = %v", got)
	}

	if err := p.Upsert(ctx, Chat{ID: "b", Title: "Beta", Pinned: true}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	snap := rec.last(t)
	if got := snapshotIDs(snap); !slices.Equal(got, []string{pinnedHeaderID, "b", "a"}) {
		t.Fatalf("entries = %v", got)
	}
	if !listdiff.IsSorted(snap.Entries) || len(listdiff.Duplicates(snap.Entries)) != 0 {
		t.Fatalf("snapshot violates ordering: %v", snapshotIDs(snap))
	}

	if err := p.Remove(ctx, "b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := snapshotIDs(rec.last(t)); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("entries after unpin = %v", got)
	}
}

func TestProducerSearch(t *testing.T) {
	ctx := context.Background()
	p, rec := newTestProducer()
	if err := p.Upsert(ctx,
		Chat{ID: "1", Title: "Ops standup"},
		Chat{ID: "2", Title: "Coffee"},
		Chat{ID: "3", Title: "Design review"},
	); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := p.SetQuery(ctx, "Ops"); err != nil {
		t.Fatalf("SetQuery: %v", err)
	}
	snap := rec.last(t)
	if got := snapshotIDs(snap); !slices.Equal(got, []string{"1"}) {
		t.Fatalf("search entries = %v", got)
	}
	if row := snap.Entries[0].(Row); len(row.Matched) != 3 {
		t.Fatalf("matched = %v", row.Matched)
	}
	if !snap.Overlay.IsZero() {
		t.Fatalf("unexpected overlay %+v", snap.Overlay)
	}

	if err := p.SetQuery(ctx, "zzzz"); err != nil {
		t.Fatalf("SetQuery: %v", err)
	}
	snap = rec.last(t)
	if len(snap.Entries) != 0 || snap.Overlay.ID != EmptySearchOverlay {
		t.Fatalf("expected empty search overlay, got %d entries overlay %+v", len(snap.Entries), snap.Overlay)
	}

	if err := p.SetQuery(ctx, ""); err != nil {
		t.Fatalf("SetQuery: %v", err)
	}
	if snap = rec.last(t); len(snap.Entries) != 3 || !snap.Overlay.IsZero() {
		t.Fatalf("clearing query should restore list, got %v", snapshotIDs(snap))
	}
}

func TestProducerSetQuerySameValueDoesNotPush(t *testing.T) {
	p, rec := newTestProducer()
	if err := p.SetQuery(context.Background(), "  "); err != nil {
		t.Fatalf("SetQuery: %v", err)
	}
	if len(rec.snaps) != 0 {
		t.Fatalf("unchanged query pushed %d snapshots", len(rec.snaps))
	}
}

func TestProducerFocusIsSentOnce(t *testing.T) {
	ctx := context.Background()
	p, rec := newTestProducer()
	if err := p.Focus(ctx, "later"); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if got := rec.last(t).Focus; got != "later" {
		t.Fatalf("focus = %q", got)
	}
	if err := p.Upsert(ctx, Chat{ID: "later", Title: "Later"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got := rec.last(t).Focus; got != "" {
		t.Fatalf("focus repeated: %q", got)
	}
}

func TestProducerMarkRead(t *testing.T) {
	ctx := context.Background()
	p, rec := newTestProducer()
	if err := p.Upsert(ctx, Chat{ID: "a", Title: "A", Unread: 3}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := p.MarkRead(ctx, "a"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if c, _ := p.Chat("a"); c.Unread != 0 {
		t.Fatalf("unread = %d", c.Unread)
	}
	pushed := len(rec.snaps)
	if err := p.MarkRead(ctx, "a"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if len(rec.snaps) != pushed {
		t.Fatalf("already-read chat pushed a snapshot")
	}
}

func TestProducerErrors(t *testing.T) {
	ctx := context.Background()
	p, rec := newTestProducer()
	if err := p.Upsert(ctx, Chat{Title: "no id"}); err == nil {
		t.Fatalf("expected error for chat without id")
	}
	rec.err = listview.ErrScreenClosed
	if err := p.Upsert(ctx, Chat{ID: "a", Title: "A"}); !errors.Is(err, listview.ErrScreenClosed) {
		t.Fatalf("err = %v, want ErrScreenClosed", err)
	}
}

func TestSeedChatsAndStep(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	chats := SeedChats(20, testNow, rng)
	if len(chats) != 20 {
		t.Fatalf("seeded %d chats", len(chats))
	}
	seen := map[string]bool{}
	for _, c := range chats {
		if seen[c.ID] || c.Title == "" {
			t.Fatalf("bad seed chat %+v", c)
		}
		seen[c.ID] = true
	}
	if !chats[0].Pinned || !chats[1].Pinned || chats[2].Pinned {
		t.Fatalf("expected exactly the first two chats pinned")
	}

	ctx := context.Background()
	p, rec := newTestProducer()
	if err := p.Upsert(ctx, chats...); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	next := p.Len()
	for i := 0; i < 50; i++ {
		if err := step(ctx, p, rng, &next); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	snap := rec.last(t)
	if !listdiff.IsSorted(snap.Entries) || len(listdiff.Duplicates(snap.Entries)) != 0 {
		t.Fatalf("simulated snapshot violates ordering")
	}
}

func TestSimulateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p, _ := newTestProducer()
	err := Simulate(ctx, p, time.Millisecond, rand.New(rand.NewSource(2)))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Simulate err = %v", err)
	}
}
