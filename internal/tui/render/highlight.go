package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

var dimStyle = lipgloss.NewStyle().Faint(true)

// CodeStyleFor 返回主题对应的 chroma 样式名。
func CodeStyleFor(theme string) string {
	if theme == "light" {
		return "github"
	}
	return "monokai"
}

// HighlightCode 使用 chroma 把代码切成带样式的行。
// 语言未知时按内容猜测，仍失败则整段 dim 输出。
func HighlightCode(code, language, styleName string) []Line {
	code = strings.TrimRight(code, "\n")
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return plainCode(code)
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainCode(code)
	}
	lines := []Line{}
	for _, toks := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		spans := make([]Span, 0, len(toks))
		for _, tok := range toks {
			text := strings.TrimSuffix(tok.Value, "\n")
			if text == "" {
				continue
			}
			spans = append(spans, Span{Text: text, Style: tokenStyle(style.Get(tok.Type))})
		}
		lines = append(lines, Line{Spans: spans})
	}
	lines = TrimTrailingBlank(lines)
	if len(lines) == 0 {
		return []Line{{}}
	}
	return lines
}

func tokenStyle(entry chroma.StyleEntry) lipgloss.Style {
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func plainCode(code string) []Line {
	lines := []Line{}
	for _, raw := range strings.Split(code, "\n") {
		lines = append(lines, StyledLine(strings.ReplaceAll(raw, "\t", "    "), dimStyle))
	}
	return lines
}
