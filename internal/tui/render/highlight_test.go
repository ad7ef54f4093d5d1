package render

import (
	"strings"
	"testing"
)

func TestHighlightCodeKeepsTextAndLineCount(t *testing.T) {
	code := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	lines := HighlightCode(code, "go", CodeStyleFor("dark"))
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	plain := LinesToPlainStrings(lines)
	if plain[0] != "package main" || plain[1] != "" {
		t.Fatalf("unexpected text: %q", plain)
	}
	if !strings.Contains(plain[3], `println("hi")`) {
		t.Fatalf("line 3 = %q", plain[3])
	}
	if len(lines[0].Spans) < 2 {
		t.Fatalf("expected keyword and name to be separate spans, got %+v", lines[0].Spans)
	}
}

func TestHighlightCodeUnknownLanguageFallsBack(t *testing.T) {
	lines := HighlightCode("just some words", "no-such-language", "no-such-style")
	got := LinesToPlainStrings(lines)
	if len(got) != 1 || got[0] != "just some words" {
		t.Fatalf("fallback text = %q", got)
	}
}
