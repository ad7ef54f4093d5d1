// Package chatlist 是聊天列表屏幕：置顶分组、按最后消息时间排序、预览与模糊搜索。
package chatlist

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"chatview/internal/listview"
	"chatview/internal/tui/render"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const (
	sectionHeader int32 = iota
	sectionPinned
	sectionRecent
)

const pinnedHeaderID = "header:pinned"

// Chat 是一个会话的摘要。
type Chat struct {
	ID          string
	Title       string
	LastMessage string
	LastAt      time.Time
	Unread      int
	Pinned      bool
	PinOrder    int
	Muted       bool
}

func (c Chat) equal(o Chat) bool {
	return c.ID == o.ID && c.Title == o.Title && c.LastMessage == o.LastMessage &&
		c.LastAt.Equal(o.LastAt) && c.Unread == o.Unread && c.Pinned == o.Pinned &&
		c.PinOrder == o.PinOrder && c.Muted == o.Muted
}

// PinnedHeader 是置顶分组的标题行。
type PinnedHeader struct {
	Count int
}

func (h PinnedHeader) Section() int32   { return sectionHeader }
func (h PinnedHeader) StableID() string { return pinnedHeaderID }

func (h PinnedHeader) Less(other listview.Entry) bool {
	return listview.LessByID(h, other)
}

func (h PinnedHeader) Equal(other listview.Entry) bool {
	o, ok := other.(PinnedHeader)
	return ok && o.Count == h.Count
}

func (h PinnedHeader) MakeItem(args listview.Args) (*listview.Item, error) {
	label := fmt.Sprintf("%s (%d)", args.String("chatlist.pinned", "Pinned"), h.Count)
	line := render.TruncateLine(render.StyledLine(label, args.Theme.Secondary), args.Width)
	item := listview.NewItem(pinnedHeaderID, []render.Line{line}, label)
	item.Focusable = false
	return item, nil
}

// Row 是一个会话行。Matched 为搜索命中的标题字节下标。
type Row struct {
	Chat    Chat
	Matched []int
	Now     time.Time
}

func (r Row) Section() int32 {
	if r.Chat.Pinned {
		return sectionPinned
	}
	return sectionRecent
}

func (r Row) StableID() string { return r.Chat.ID }

// Less 置顶行按置顶顺序，其余按最后消息时间倒序，ID 兜底。
func (r Row) Less(other listview.Entry) bool {
	o, ok := other.(Row)
	if !ok {
		return listview.LessByID(r, other)
	}
	if r.Chat.Pinned && o.Chat.Pinned && r.Chat.PinOrder != o.Chat.PinOrder {
		return r.Chat.PinOrder < o.Chat.PinOrder
	}
	if !r.Chat.Pinned && !o.Chat.Pinned && !r.Chat.LastAt.Equal(o.Chat.LastAt) {
		return r.Chat.LastAt.After(o.Chat.LastAt)
	}
	return r.Chat.ID < o.Chat.ID
}

func (r Row) Equal(other listview.Entry) bool {
	o, ok := other.(Row)
	return ok && r.Chat.equal(o.Chat) && slices.Equal(r.Matched, o.Matched) && sameDay(r.Now, o.Now)
}

func (r Row) MakeItem(args listview.Args) (*listview.Item, error) {
	if strings.TrimSpace(r.Chat.Title) == "" {
		return nil, fmt.Errorf("chat %s has no title", r.Chat.ID)
	}
	th := args.Theme
	width := args.Width
	if width <= 0 {
		width = 80
	}

	stamp := formatStamp(r.Chat.LastAt, r.Now)
	right := []render.Span{{Text: " " + stamp, Style: th.Muted}}
	if r.Chat.Unread > 0 {
		badgeStyle := th.Accent
		if r.Chat.Muted {
			badgeStyle = th.Muted
		}
		right = append(right, render.Span{Text: fmt.Sprintf(" %d", r.Chat.Unread), Style: badgeStyle})
	}
	rightWidth := render.LineWidth(render.Line{Spans: right})

	marker := "  "
	if r.Chat.Pinned {
		marker = "• "
	}
	title := render.Line{Spans: append([]render.Span{{Text: marker, Style: th.Muted}}, titleSpans(r.Chat.Title, r.Matched, th)...)}
	title = render.PadLine(render.TruncateLine(title, width-rightWidth), width-rightWidth)
	title.Spans = append(title.Spans, right...)

	lines := []render.Line{title}
	if args.Interaction.ShowPreviews && r.Chat.LastMessage != "" {
		lines = append(lines, previewLines(r.Chat.LastMessage, width-2, th)...)
	}
	return listview.NewItem(r.Chat.ID, lines, r.Chat.Title+"\n"+r.Chat.LastMessage), nil
}

func titleSpans(title string, matched []int, th listview.Theme) []render.Span {
	if len(matched) == 0 {
		return []render.Span{{Text: title, Style: th.Primary}}
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	hl := th.Accent.Underline(true)
	var spans []render.Span
	var b strings.Builder
	cur := false
	flush := func() {
		if b.Len() == 0 {
			return
		}
		st := th.Primary
		if cur {
			st = hl
		}
		spans = append(spans, render.Span{Text: b.String(), Style: st})
		b.Reset()
	}
	for i, ch := range title {
		if hit[i] != cur {
			flush()
			cur = hit[i]
		}
		b.WriteRune(ch)
	}
	flush()
	return spans
}

// previewLines 最多两行预览；以 ``` 开头的消息按代码高亮首行。
func previewLines(msg string, width int, th listview.Theme) []render.Line {
	if width < 8 {
		width = 8
	}
	indent := render.Span{Text: "  "}
	if lang, code, ok := fencedCode(msg); ok {
		highlighted := render.HighlightCode(code, lang, render.CodeStyleFor(th.Name))
		if len(highlighted) > 0 {
			line := render.TruncateLine(highlighted[0], width)
			return render.PrefixLines([]render.Line{line}, indent, indent)
		}
	}
	flat := strings.Join(strings.Fields(msg), " ")
	wrapped := strings.Split(wordwrap.String(flat, width), "\n")
	if len(wrapped) > 2 {
		wrapped = wrapped[:2]
		wrapped[1] = strings.TrimRight(runewidth.Truncate(wrapped[1], width-1, ""), " ") + render.Ellipsis
	}
	lines := make([]render.Line, 0, len(wrapped))
	for _, w := range wrapped {
		lines = append(lines, render.TruncateLine(render.StyledLine(w, th.Secondary), width))
	}
	return render.PrefixLines(lines, indent, indent)
}

func fencedCode(msg string) (lang, code string, ok bool) {
	trimmed := strings.TrimSpace(msg)
	if !strings.HasPrefix(trimmed, "```") {
		return "", "", false
	}
	body := strings.TrimPrefix(trimmed, "```")
	first, rest, found := strings.Cut(body, "\n")
	if !found {
		return "", "", false
	}
	rest = strings.TrimSuffix(strings.TrimRight(rest, "\n"), "```")
	if strings.TrimSpace(rest) == "" {
		return "", "", false
	}
	return strings.TrimSpace(first), rest, true
}

func formatStamp(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	if now.IsZero() || sameDay(at, now) {
		return at.Format("15:04")
	}
	if at.Year() == now.Year() {
		return at.Format("Jan 2")
	}
	return at.Format("2006-01-02")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
