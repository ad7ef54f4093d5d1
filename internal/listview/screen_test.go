package listview

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"chatview/internal/config"
	"chatview/internal/logger"
)

func newTestScreen(t *testing.T, consumer Consumer) (*Screen, *Loop, chan Applied) {
	t.Helper()
	opts, err := OptionsFromConfig("test", config.Default().Engine)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	opts.Debug = true
	opts.Logger = logger.Discard()
	s := NewScreen(context.Background(), consumer, opts)
	loop := NewLoop(16)
	loop.Start()
	applied := make(chan Applied, 16)
	loop.Attach(s, func(a Applied) { applied <- a })
	t.Cleanup(func() {
		s.Close()
		loop.Stop()
	})
	return s, loop, applied
}

func waitApplied(t *testing.T, ch <-chan Applied) Applied {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case a := <-ch:
		return a
	case <-ctx.Done():
		t.Fatalf("timed out waiting for commit")
		return Applied{}
	}
}

func TestScreenEndToEnd(t *testing.T) {
	rec := &recorder{}
	s, loop, applied := newTestScreen(t, rec)
	ctx := context.Background()
	args := testArgs()

	snaps := []Snapshot{
		{Entries: entries(mk("1", 1, 1), mk("2", 2, 1), mk("3", 3, 1)), Args: args, CanLoadEarlier: true},
		{Entries: entries(mk("1", 1, 1), mk("3", 3, 2), mk("4", 4, 1)), Args: args, CanLoadEarlier: true},
		{Entries: entries(mk("4", 0, 1), mk("1", 1, 1), mk("3", 3, 2)), Args: args, Focus: "3"},
	}
	for _, snap := range snaps {
		if err := s.Push(ctx, snap); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	for want := uint64(1); want <= 3; want++ {
		if a := waitApplied(t, applied); a.Dropped || a.Seq != want {
			t.Fatalf("applied = %+v, want seq %d", a, want)
		}
	}

	var ids []string
	var state State
	if err := loop.Call(ctx, func() {
		ids = itemIDs(s.Coordinator().Items())
		state = s.Coordinator().State()
		s.SetVisibleRange(0, 2)
	}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if !slices.Equal(ids, []string{"4", "1", "3"}) {
		t.Fatalf("items = %v", ids)
	}
	if state.Seq != 3 || state.CanLoadEarlier {
		t.Fatalf("state = %+v", state)
	}
	if err := loop.Call(ctx, func() {}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if rec.firstPaint != 1 || rec.pagination != 0 || !slices.Equal(rec.focus, []string{"3@2"}) {
		t.Fatalf("recorder = %+v", rec)
	}
}

func TestScreenRebuildsOnArgsChange(t *testing.T) {
	s, loop, applied := newTestScreen(t, nil)
	ctx := context.Background()
	rows := entries(mk("a", 1, 1), mk("b", 2, 1))

	args := testArgs()
	if err := s.Push(ctx, Snapshot{Entries: rows, Args: args}); err != nil {
		t.Fatalf("push: %v", err)
	}
	waitApplied(t, applied)

	args.Width = 60
	if err := s.Push(ctx, Snapshot{Entries: rows, Args: args}); err != nil {
		t.Fatalf("push: %v", err)
	}
	a := waitApplied(t, applied)
	if !slices.Equal(a.Updated, []int{0, 1}) {
		t.Fatalf("width change should rebuild all rows, updated = %v", a.Updated)
	}
	var text string
	_ = loop.Call(ctx, func() { text = s.Coordinator().Item(0).Text })
	if text != "a v1 w60" {
		t.Fatalf("item text = %q", text)
	}
}

func TestScreenNormalizesUnsortedInputInRelease(t *testing.T) {
	s, loop, applied := newTestScreen(t, nil)
	s.reconciler.debug = false
	ctx := context.Background()

	bad := entries(mk("b", 2, 1), mk("a", 1, 1), mk("a", 3, 1))
	if err := s.Push(ctx, Snapshot{Entries: bad, Args: testArgs()}); err != nil {
		t.Fatalf("push: %v", err)
	}
	waitApplied(t, applied)
	var ids []string
	_ = loop.Call(ctx, func() { ids = itemIDs(s.Coordinator().Items()) })
	if !slices.Equal(ids, []string{"a", "b"}) {
		t.Fatalf("items = %v", ids)
	}
}

func TestReconcilerPanicsOnDuplicatesInDebug(t *testing.T) {
	r := NewReconciler(ReconcilerOptions{Debug: true, Logger: logger.Discard()}, func(*Transition) error { return nil })
	defer r.Close()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for duplicate ids")
		}
	}()
	r.prepare(Snapshot{Entries: entries(mk("a", 1, 1), mk("a", 2, 1))})
}

func TestScreenCloseStopsDelivery(t *testing.T) {
	s, _, applied := newTestScreen(t, nil)
	ctx := context.Background()

	gate := make(chan struct{})
	defer close(gate)
	if err := s.Push(ctx, Snapshot{Entries: entries(mk("a", 1, 1)), Args: testArgs()}); err != nil {
		t.Fatalf("push: %v", err)
	}
	waitApplied(t, applied)
	if err := s.Push(ctx, Snapshot{Entries: entries(row{id: "a", key: 1, v: 2, gate: gate}), Args: testArgs()}); err != nil {
		t.Fatalf("push: %v", err)
	}
	s.Close()

	select {
	case a := <-applied:
		if !a.Dropped {
			t.Fatalf("commit after close should be dropped, got %+v", a)
		}
	case <-time.After(50 * time.Millisecond):
	}
	if err := s.Push(ctx, Snapshot{}); !errors.Is(err, ErrScreenClosed) {
		t.Fatalf("push after close = %v, want ErrScreenClosed", err)
	}
}
