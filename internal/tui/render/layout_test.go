package render

import (
	"slices"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestStackClipsToHeight(t *testing.T) {
	stack := Stack{
		Text{Body: "a"},
		nil,
		Text{Body: ""},
		Text{Body: "one two three"},
	}
	if h := stack.DesiredHeight(7); h != 3 {
		t.Fatalf("DesiredHeight = %d, want 3", h)
	}
	tests := []struct {
		name   string
		height int
		want   []string
	}{
		{name: "unbounded", height: 0, want: []string{"a", "one two", "three"}},
		{name: "clipped inside a child", height: 2, want: []string{"a", "one two"}},
		{name: "single row", height: 1, want: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf Buffer
			stack.Render(Rect{Width: 7, Height: tt.height}, &buf)
			if got := LinesToPlainStrings(buf.Lines); !slices.Equal(got, tt.want) {
				t.Fatalf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaddedIndentsAndReservesRows(t *testing.T) {
	box := Padded{Child: Text{Body: "hello world"}, Padding: Padding{Top: 1, Left: 2, Bottom: 1}}
	if h := box.DesiredHeight(7); h != 4 {
		t.Fatalf("DesiredHeight = %d, want 4", h)
	}
	var buf Buffer
	box.Render(Rect{Width: 7, Height: 10}, &buf)
	want := []string{"", "  hello", "  world", ""}
	if got := LinesToPlainStrings(buf.Lines); !slices.Equal(got, want) {
		t.Fatalf("rendered %q, want %q", got, want)
	}
	if (Padded{}).DesiredHeight(10) != 0 {
		t.Fatalf("empty box should take no rows")
	}
	if p := Pad(1, 2); p != (Padding{Top: 1, Right: 2, Bottom: 1, Left: 2}) {
		t.Fatalf("Pad = %+v", p)
	}
}

func TestTruncateLine(t *testing.T) {
	line := Line{Spans: []Span{{Text: "你好"}, {Text: "world"}}}
	got := TruncateLine(line, 6)
	if w := LineWidth(got); w > 6 {
		t.Fatalf("width %d exceeds 6", w)
	}
	if plain := LinesToPlainStrings([]Line{got})[0]; plain != "你好w…" {
		t.Fatalf("truncated = %q", plain)
	}
	if short := TruncateLine(PlainLine("ok"), 6); LinesToPlainStrings([]Line{short})[0] != "ok" {
		t.Fatalf("short line should be untouched")
	}
	if padded := PadLine(PlainLine("ok"), 5); LineWidth(padded) != 5 {
		t.Fatalf("PadLine width = %d", LineWidth(padded))
	}
}

func TestTruncateANSI(t *testing.T) {
	s := "\x1b[1mbold text\x1b[0m"
	got := TruncateANSI(s, 5)
	if w := ansi.StringWidth(got); w > 5 || w == 0 {
		t.Fatalf("truncated width = %d (%q)", w, got)
	}
	if TruncateANSI(s, 20) != s {
		t.Fatalf("short string should be untouched")
	}
	if TruncateANSI(s, 0) != "" {
		t.Fatalf("zero width should be empty")
	}
}
