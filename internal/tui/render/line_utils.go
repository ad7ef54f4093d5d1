package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Ellipsis 是截断时追加的尾巴。
const Ellipsis = "…"

// LineWidth 返回行的显示宽度（不含样式）。
func LineWidth(line Line) int {
	w := 0
	for _, sp := range line.Spans {
		w += runewidth.StringWidth(sp.Text)
	}
	return w
}

// TruncateLine 按显示宽度截断行，超出时以 Ellipsis 结尾；样式保留在原 Span 上。
func TruncateLine(line Line, width int) Line {
	if width <= 0 {
		return Line{Style: line.Style}
	}
	if LineWidth(line) <= width {
		return line
	}
	tailWidth := runewidth.StringWidth(Ellipsis)
	budget := width - tailWidth
	out := Line{Style: line.Style, Spans: make([]Span, 0, len(line.Spans))}
	var last lipgloss.Style
	for _, sp := range line.Spans {
		last = sp.Style
		if budget <= 0 {
			break
		}
		w := runewidth.StringWidth(sp.Text)
		if w <= budget {
			out.Spans = append(out.Spans, sp)
			budget -= w
			continue
		}
		out.Spans = append(out.Spans, Span{Text: runewidth.Truncate(sp.Text, budget, ""), Style: sp.Style})
		budget = 0
	}
	out.Spans = append(out.Spans, Span{Text: Ellipsis, Style: last})
	return out
}

// PadLine 在行尾补空格直到 width 列。
func PadLine(line Line, width int) Line {
	w := LineWidth(line)
	if w >= width {
		return line
	}
	spans := make([]Span, 0, len(line.Spans)+1)
	spans = append(spans, line.Spans...)
	spans = append(spans, Span{Text: strings.Repeat(" ", width-w)})
	return Line{Spans: spans, Style: line.Style}
}

// TruncateANSI 截断已渲染（含 ANSI 序列）的字符串，不破坏转义序列。
func TruncateANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// IsBlankLineSpacesOnly 判断行是否为空或仅包含空格。
func IsBlankLineSpacesOnly(line Line) bool {
	if len(line.Spans) == 0 {
		return true
	}
	for _, sp := range line.Spans {
		if strings.Trim(sp.Text, " \t") != "" {
			return false
		}
	}
	return true
}

// TrimTrailingBlank 去掉末尾的空行。
func TrimTrailingBlank(lines []Line) []Line {
	for len(lines) > 0 && IsBlankLineSpacesOnly(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}
