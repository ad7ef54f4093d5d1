package adminlog

import (
	"fmt"
	"strings"

	"chatview/internal/listview"
	"chatview/internal/tui/render"
)

const (
	sectionMarker int32 = iota
	sectionActions
)

const (
	startMarkerID   = "marker:start"
	loadingMarkerID = "marker:loading"
)

// ActionEntry 是一条操作记录对应的行。
type ActionEntry struct {
	Action Action
}

func (e ActionEntry) Section() int32   { return sectionActions }
func (e ActionEntry) StableID() string { return e.Action.ID.String() }

func (e ActionEntry) Less(other listview.Entry) bool {
	o, ok := other.(ActionEntry)
	if !ok {
		return listview.LessByID(e, other)
	}
	return e.Action.ID.Compare(o.Action.ID) < 0
}

func (e ActionEntry) Equal(other listview.Entry) bool {
	o, ok := other.(ActionEntry)
	return ok && o.Action.ID == e.Action.ID && o.Action.At.Equal(e.Action.At) &&
		o.Action.Actor == e.Action.Actor && o.Action.Action == e.Action.Action &&
		o.Action.Detail == e.Action.Detail
}

func (e ActionEntry) MakeItem(args listview.Args) (*listview.Item, error) {
	th := args.Theme
	a := e.Action
	head := render.Line{Spans: []render.Span{
		{Text: a.At.Local().Format("2006-01-02 15:04:05") + " ", Style: th.Muted},
		{Text: a.Actor, Style: th.Accent},
		{Text: " " + a.Action, Style: th.Primary},
	}}
	lines := []render.Line{render.TruncateLine(head, args.Width)}
	if detail := strings.TrimSpace(a.Detail); detail != "" && args.Interaction.ShowPreviews {
		var body []render.Line
		for _, w := range render.WrapText(detail, max(args.Width-4, 8)) {
			body = append(body, render.StyledLine(w, th.Secondary))
		}
		indent := render.Span{Text: "    "}
		lines = append(lines, render.PrefixLines(body, indent, indent)...)
	}
	text := fmt.Sprintf("%s %s %s %s", a.At.Format("2006-01-02T15:04:05Z07:00"), a.Actor, a.Action, a.Detail)
	return listview.NewItem(e.StableID(), lines, strings.TrimSpace(text)), nil
}

// Marker 是列表顶部的状态行：已到最早记录或正在加载。
type Marker struct {
	Loading bool
}

func (m Marker) Section() int32 { return sectionMarker }

func (m Marker) StableID() string {
	if m.Loading {
		return loadingMarkerID
	}
	return startMarkerID
}

func (m Marker) Less(other listview.Entry) bool { return listview.LessByID(m, other) }

func (m Marker) Equal(other listview.Entry) bool {
	o, ok := other.(Marker)
	return ok && o == m
}

func (m Marker) MakeItem(args listview.Args) (*listview.Item, error) {
	label := args.String("adminlog.start", "beginning of log")
	if m.Loading {
		label = args.String("adminlog.loading", "loading earlier entries…")
	}
	line := render.TruncateLine(render.StyledLine("── "+label+" ──", args.Theme.Muted), args.Width)
	item := listview.NewItem(m.StableID(), []render.Line{line}, label)
	item.Focusable = false
	return item, nil
}
