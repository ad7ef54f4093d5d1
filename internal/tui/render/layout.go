package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rect 是渲染区域；Height 为 0 表示不限高度。
type Rect struct {
	X, Y          int
	Width, Height int
}

// Padding 是四边留白，左右按列、上下按行计。
type Padding struct {
	Top, Right, Bottom, Left int
}

// Pad 返回上下 v 行、左右 h 列的留白。
func Pad(v, h int) Padding {
	return Padding{Top: v, Right: h, Bottom: v, Left: h}
}

// shrink 扣除留白后的内部区域，宽高不会小于 0。
func (r Rect) shrink(p Padding) Rect {
	inner := Rect{X: r.X + p.Left, Y: r.Y + p.Top, Width: max(r.Width-p.Left-p.Right, 0)}
	if r.Height > 0 {
		inner.Height = max(r.Height-p.Top-p.Bottom, 0)
	}
	return inner
}

// Renderable 是按宽度测量并写入 Buffer 的内容块。可视项、状态栏和覆盖层都实现它。
type Renderable interface {
	Render(area Rect, buf *Buffer)
	DesiredHeight(width int) int
}

// Stack 自上而下排列子块，超出 area.Height 的部分被截掉。
type Stack []Renderable

func (s Stack) Render(area Rect, buf *Buffer) {
	used := 0
	for _, child := range s {
		if child == nil {
			continue
		}
		h := child.DesiredHeight(area.Width)
		if area.Height > 0 {
			if used >= area.Height {
				return
			}
			h = min(h, area.Height-used)
		}
		if h <= 0 {
			continue
		}
		child.Render(Rect{X: area.X, Y: area.Y + used, Width: area.Width, Height: h}, buf)
		used += h
	}
}

func (s Stack) DesiredHeight(width int) int {
	total := 0
	for _, child := range s {
		if child != nil {
			total += child.DesiredHeight(width)
		}
	}
	return total
}

// Padded 给子块加留白；左侧留白以空格写入每一行。
type Padded struct {
	Child   Renderable
	Padding Padding
}

func (p Padded) Render(area Rect, buf *Buffer) {
	if p.Child == nil {
		return
	}
	var inner Buffer
	p.Child.Render(area.shrink(p.Padding), &inner)
	for n := p.Padding.Top; n > 0; n-- {
		buf.WriteLine(Line{})
	}
	indent := strings.Repeat(" ", p.Padding.Left)
	for _, l := range inner.Lines {
		if indent != "" {
			l = Line{Spans: append([]Span{{Text: indent}}, l.Spans...), Style: l.Style}
		}
		buf.WriteLine(l)
	}
	for n := p.Padding.Bottom; n > 0; n-- {
		buf.WriteLine(Line{})
	}
}

func (p Padded) DesiredHeight(width int) int {
	if p.Child == nil {
		return 0
	}
	inner := max(width-p.Padding.Left-p.Padding.Right, 0)
	return p.Child.DesiredHeight(inner) + p.Padding.Top + p.Padding.Bottom
}

// Text 是按宽度折行的单一样式文本；Body 为空时不占行。
type Text struct {
	Body  string
	Style lipgloss.Style
}

func (t Text) Render(area Rect, buf *Buffer) {
	lines := t.lines(area.Width)
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	for _, line := range lines {
		buf.WriteLine(Line{Spans: []Span{{Text: line, Style: t.Style}}})
	}
}

func (t Text) DesiredHeight(width int) int {
	return len(t.lines(width))
}

func (t Text) lines(width int) []string {
	if strings.TrimSpace(t.Body) == "" {
		return nil
	}
	return wrapText(t.Body, width)
}
