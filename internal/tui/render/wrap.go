package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText 按显示宽度做词级别换行，宽字符按两列计算。
func WrapText(text string, width int) []string {
	return wrapText(text, width)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	out := []string{}
	current := ""
	currentWidth := 0
	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		if current == "" {
			if w > width {
				out = append(out, breakLongWord(word, width)...)
				continue
			}
			current, currentWidth = word, w
			continue
		}
		if currentWidth+1+w <= width {
			current += " " + word
			currentWidth += 1 + w
			continue
		}
		out = append(out, current)
		if w > width {
			out = append(out, breakLongWord(word, width)...)
			current, currentWidth = "", 0
			continue
		}
		current, currentWidth = word, w
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}

// breakLongWord 按列宽切分单词，宽字符不会被拆到两行。
func breakLongWord(word string, width int) []string {
	if width <= 0 {
		return []string{word}
	}
	out := []string{}
	var b strings.Builder
	used := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if used+rw > width && used > 0 {
			out = append(out, b.String())
			b.Reset()
			used = 0
		}
		b.WriteRune(r)
		used += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
