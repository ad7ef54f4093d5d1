package adminlog

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"
)

var seedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "adminlog.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedStore(t *testing.T, s *Store, n int) {
	t.Helper()
	if err := Seed(context.Background(), s, n, seedNow, rand.New(rand.NewSource(3))); err != nil {
		t.Fatalf("Seed: %v", err)
	}
}

func TestStoreAppendAndLatest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	got, err := s.Latest(ctx, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("Latest on empty store = %v, %v", got, err)
	}

	a, err := s.AppendAt(ctx, seedNow, "alice", "user.invite", "bob@example.com")
	if err != nil {
		t.Fatalf("AppendAt: %v", err)
	}
	b, err := s.AppendAt(ctx, seedNow, "alice", "role.grant", "bob=admin")
	if err != nil {
		t.Fatalf("AppendAt: %v", err)
	}
	if a.ID.Compare(b.ID) >= 0 {
		t.Fatalf("ids in the same millisecond must increase: %s >= %s", a.ID, b.ID)
	}

	got, err = s.Latest(ctx, 10)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("Latest = %+v", got)
	}
	if !got[0].At.Equal(seedNow) || got[0].Actor != "alice" || got[0].Detail != "bob@example.com" {
		t.Fatalf("round-tripped action = %+v", got[0])
	}
}

func TestStoreKeysetPaging(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	seedStore(t, s, 23)

	if n, err := s.Count(ctx); err != nil || n != 23 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	page, err := s.Latest(ctx, 10)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	all := page
	for len(page) == 10 {
		page, err = s.Before(ctx, all[0].ID, 10)
		if err != nil {
			t.Fatalf("Before: %v", err)
		}
		all = append(page, all...)
	}
	if len(all) != 23 || len(page) != 3 {
		t.Fatalf("paged %d rows, last page %d", len(all), len(page))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID.Compare(all[i].ID) >= 0 || all[i-1].At.After(all[i].At) {
			t.Fatalf("rows out of order at %d", i)
		}
	}
}

func TestStoreReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "adminlog.sqlite")
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Append(ctx, "ops-bot", "token.rotate", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n, err := s.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count after reopen = %d, %v", n, err)
	}
}
