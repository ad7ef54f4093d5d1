package listview

import (
	"errors"
	"strings"

	"chatview/internal/tui/render"
)

var errNilItem = errors.New("entry returned no item")

// Item 是已构造完成的可视项，构造后不再修改，可在多次提交之间共享。
type Item struct {
	ID          string
	Lines       []render.Line
	Text        string
	Focusable   bool
	Placeholder bool
	Err         error
}

// NewItem 用预先排好的行创建可视项。
func NewItem(id string, lines []render.Line, text string) *Item {
	return &Item{ID: id, Lines: lines, Text: text, Focusable: true}
}

// NewPlaceholder 创建构造失败时的占位项，保持列表结构完整。
func NewPlaceholder(id string, err error, args Args) *Item {
	label := args.String("placeholder", "unable to display this row")
	return &Item{
		ID: id,
		Lines: []render.Line{{Spans: []render.Span{
			{Text: "! ", Style: args.Theme.Error},
			{Text: label, Style: args.Theme.Muted},
		}}},
		Text:        label,
		Placeholder: true,
		Err:         err,
	}
}

// Height 返回可视项占用的行数，至少为 1。
func (it *Item) Height() int {
	if it == nil || len(it.Lines) == 0 {
		return 1
	}
	return len(it.Lines)
}

func (it *Item) Render(area render.Rect, buf *render.Buffer) {
	if it == nil {
		return
	}
	lines := it.Lines
	if len(lines) == 0 {
		lines = []render.Line{{}}
	}
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	buf.WriteLines(lines...)
}

func (it *Item) DesiredHeight(int) int {
	return it.Height()
}

// PlainText 返回纯文本内容，Text 为空时拼接各行文字。
func (it *Item) PlainText() string {
	if it == nil {
		return ""
	}
	if it.Text != "" {
		return it.Text
	}
	rows := make([]string, 0, len(it.Lines))
	for _, l := range it.Lines {
		var b strings.Builder
		for _, sp := range l.Spans {
			b.WriteString(sp.Text)
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}
