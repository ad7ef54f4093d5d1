package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"chatview/internal/events"
	"chatview/internal/tui/render"

	"github.com/mattn/go-runewidth"
)

func TestFmtElapsedCompact(t *testing.T) {
	cases := []struct {
		seconds  uint64
		expected string
	}{
		{seconds: 0, expected: "0s"},
		{seconds: 59, expected: "59s"},
		{seconds: 60, expected: "1m 00s"},
		{seconds: 3*60 + 5, expected: "3m 05s"},
		{seconds: 3600, expected: "1h 00m 00s"},
		{seconds: 25*3600 + 2*60 + 3, expected: "25h 02m 03s"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := fmtElapsedCompact(tc.seconds); got != tc.expected {
				t.Fatalf("fmtElapsedCompact(%d) = %q, want %q", tc.seconds, got, tc.expected)
			}
		})
	}
}

func plainStatus(w *StatusLine, width int) string {
	buf := render.Buffer{}
	w.Render(render.Rect{Width: width, Height: 1}, &buf)
	if len(buf.Lines) == 0 {
		return ""
	}
	return render.LinesToPlainStrings(buf.Lines)[0]
}

func TestStatusLineTimerStopsWhenIdle(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	w := NewStatusLine(func() time.Time { return now })

	now = base.Add(5 * time.Second)
	if got := w.ElapsedSeconds(); got != 5 {
		t.Fatalf("loading elapsed = %d, want 5", got)
	}
	w.SetState(StatusIdle)
	now = base.Add(10 * time.Second)
	if got := w.ElapsedSeconds(); got != 5 {
		t.Fatalf("idle elapsed = %d, want 5", got)
	}

	w.SetState(StatusPaging)
	now = base.Add(13 * time.Second)
	if got := w.ElapsedSeconds(); got != 3 {
		t.Fatalf("paging elapsed = %d, want 3 after restart", got)
	}
}

func TestStatusLineRender(t *testing.T) {
	now := time.Unix(0, 0)
	w := NewStatusLine(func() time.Time { return now })
	w.SetCount(12)

	if got, want := plainStatus(w, 80), "- Loading (0s) 12 items"; got != want {
		t.Fatalf("loading render = %q, want %q", got, want)
	}

	w.SetState(StatusIdle)
	w.SetQuery("ops")
	if got, want := plainStatus(w, 80), `12 items • search "ops"`; got != want {
		t.Fatalf("idle render = %q, want %q", got, want)
	}

	w.SetError(errors.New("database is closed"))
	if got := plainStatus(w, 80); !strings.HasPrefix(got, "! Error: database is closed") {
		t.Fatalf("error render = %q", got)
	}
	if w.State() != StatusError {
		t.Fatalf("state = %v", w.State())
	}
}

func TestStatusLineClampsToWidth(t *testing.T) {
	w := NewStatusLine(nil)
	w.SetError(errors.New(strings.Repeat("very long failure ", 10)))
	got := plainStatus(w, 10)
	if width := runewidth.StringWidth(got); width > 10 {
		t.Fatalf("rendered width %d exceeds 10", width)
	}
}

func TestStatusLineShowsLastCommit(t *testing.T) {
	w := NewStatusLine(func() time.Time { return time.Unix(0, 0) })
	w.SetState(StatusIdle)
	w.SetCount(4)
	if got := plainStatus(w, 80); strings.Contains(got, "~") {
		t.Fatalf("no commit yet, got %q", got)
	}
	w.SetLastCommit(events.CommitSummary{Insertions: 2, Deletions: 1, Updates: 3, Len: 4})
	if got := plainStatus(w, 80); !strings.Contains(got, "4 items • +2 -1 ~3") {
		t.Fatalf("status = %q", got)
	}
}
