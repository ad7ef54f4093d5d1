package chatlist

import (
	"slices"
	"strings"
	"testing"
	"time"

	"chatview/internal/listdiff"
	"chatview/internal/listview"
	"chatview/internal/tui/render"
)

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func testArgs() listview.Args {
	return listview.Args{
		Width:       40,
		Theme:       listview.DarkTheme(),
		Interaction: listview.Interaction{ShowPreviews: true, Selectable: true},
	}
}

func TestRowOrdering(t *testing.T) {
	entries := []listview.Entry{
		Row{Chat: Chat{ID: "r1", Title: "old", LastAt: testNow.Add(-time.Hour)}},
		Row{Chat: Chat{ID: "p2", Title: "second pin", Pinned: true, PinOrder: 2}},
		Row{Chat: Chat{ID: "r2", Title: "new", LastAt: testNow}},
		PinnedHeader{Count: 2},
		Row{Chat: Chat{ID: "p1", Title: "first pin", Pinned: true, PinOrder: 1}},
		Row{Chat: Chat{ID: "r0", Title: "same time", LastAt: testNow}},
	}
	slices.SortFunc(entries, listdiff.Compare[listview.Entry])

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.StableID())
	}
	want := []string{pinnedHeaderID, "p1", "p2", "r0", "r2", "r1"}
	if !slices.Equal(ids, want) {
		t.Fatalf("order = %v, want %v", ids, want)
	}
}

func TestRowEqualTracksContent(t *testing.T) {
	base := Row{Chat: Chat{ID: "a", Title: "A", Unread: 1}, Now: testNow}
	tests := []struct {
		name  string
		other listview.Entry
		want  bool
	}{
		{name: "identical", other: base, want: true},
		{name: "unread", other: Row{Chat: Chat{ID: "a", Title: "A", Unread: 2}, Now: testNow}},
		{name: "matched", other: Row{Chat: base.Chat, Matched: []int{0}, Now: testNow}},
		{name: "next day", other: Row{Chat: base.Chat, Now: testNow.Add(24 * time.Hour)}},
		{name: "later same day", other: Row{Chat: base.Chat, Now: testNow.Add(time.Minute)}, want: true},
		{name: "header", other: PinnedHeader{Count: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Fatalf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRowMakeItemFitsWidth(t *testing.T) {
	args := testArgs()
	row := Row{
		Chat: Chat{
			ID:          "c1",
			Title:       "A rather long conversation title that will not fit",
			LastMessage: "first line of a long message that keeps going well past the available width of the list",
			LastAt:      testNow.Add(-time.Minute),
			Unread:      12,
		},
		Now: testNow,
	}
	item, err := row.MakeItem(args)
	if err != nil {
		t.Fatalf("MakeItem: %v", err)
	}
	if item.ID != "c1" || !item.Focusable {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.Height() != 3 {
		t.Fatalf("height = %d, want title + two preview lines", item.Height())
	}
	if w := render.LineWidth(item.Lines[0]); w != args.Width {
		t.Fatalf("title width = %d, want %d", w, args.Width)
	}
	for i, l := range item.Lines {
		if w := render.LineWidth(l); w > args.Width {
			t.Fatalf("line %d width %d exceeds %d", i, w, args.Width)
		}
	}
	plain := render.LinesToPlainStrings(item.Lines)
	if !strings.Contains(plain[0], "15:08") || !strings.Contains(plain[0], "12") {
		t.Fatalf("title line missing time or badge: %q", plain[0])
	}
}

func TestRowMakeItemWithoutPreviews(t *testing.T) {
	args := testArgs()
	args.Interaction.ShowPreviews = false
	item, err := Row{Chat: Chat{ID: "c1", Title: "T", LastMessage: "hello"}}.MakeItem(args)
	if err != nil {
		t.Fatalf("MakeItem: %v", err)
	}
	if item.Height() != 1 {
		t.Fatalf("height = %d, want 1", item.Height())
	}
}

func TestRowMakeItemCodePreview(t *testing.T) {
	row := Row{Chat: Chat{ID: "c1", Title: "T", LastMessage: "```go\nx := 1\ny := 2\n```"}}
	item, err := row.MakeItem(testArgs())
	if err != nil {
		t.Fatalf("MakeItem: %v", err)
	}
	plain := render.LinesToPlainStrings(item.Lines)
	if len(plain) != 2 || !strings.Contains(plain[1], "x := 1") {
		t.Fatalf("code preview = %q", plain)
	}
}

func TestRowMakeItemRejectsEmptyTitle(t *testing.T) {
	if _, err := (Row{Chat: Chat{ID: "c1", Title: "  "}}).MakeItem(testArgs()); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

func TestPinnedHeaderItem(t *testing.T) {
	args := testArgs()
	args.Strings = map[string]string{"chatlist.pinned": "置顶"}
	item, err := PinnedHeader{Count: 3}.MakeItem(args)
	if err != nil {
		t.Fatalf("MakeItem: %v", err)
	}
	if item.Focusable {
		t.Fatalf("header should not be focusable")
	}
	if got := item.PlainText(); got != "置顶 (3)" {
		t.Fatalf("header text = %q", got)
	}
}

func TestFormatStamp(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{at: time.Time{}, want: ""},
		{at: testNow.Add(-2 * time.Hour), want: "13:09"},
		{at: time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC), want: "Jan 2"},
		{at: time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), want: "2025-12-31"},
	}
	for _, tt := range tests {
		if got := formatStamp(tt.at, testNow); got != tt.want {
			t.Fatalf("formatStamp(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestFencedCode(t *testing.T) {
	tests := []struct {
		in   string
		lang string
		code string
		ok   bool
	}{
		{in: "```go\nfmt.Println()\n```", lang: "go", code: "fmt.Println()\n", ok: true},
		{in: "```\nplain\n```", lang: "", code: "plain\n", ok: true},
		{in: "no fence", ok: false},
		{in: "```go```", ok: false},
		{in: "```go\n```", ok: false},
	}
	for _, tt := range tests {
		lang, code, ok := fencedCode(tt.in)
		if ok != tt.ok || lang != tt.lang || code != tt.code {
			t.Fatalf("fencedCode(%q) = (%q, %q, %v)", tt.in, lang, code, ok)
		}
	}
}
