package listview

import (
	"errors"
	"fmt"
	"sync/atomic"

	"chatview/internal/listdiff"
	"chatview/internal/tui/render"
)

type row struct {
	id    string
	sec   int32
	key   int
	v     int
	fail  bool
	boom  bool
	gate  chan struct{}
	calls *atomic.Int32
}

func (r row) Section() int32   { return r.sec }
func (r row) StableID() string { return r.id }

func (r row) Less(other Entry) bool {
	o, ok := other.(row)
	if !ok {
		return LessByID(r, other)
	}
	if r.key != o.key {
		return r.key < o.key
	}
	return r.id < o.id
}

func (r row) Equal(other Entry) bool {
	o, ok := other.(row)
	return ok && r.id == o.id && r.sec == o.sec && r.key == o.key && r.v == o.v && r.fail == o.fail && r.boom == o.boom
}

func (r row) MakeItem(args Args) (*Item, error) {
	if r.calls != nil {
		r.calls.Add(1)
	}
	if r.gate != nil {
		<-r.gate
	}
	if r.boom {
		panic("boom")
	}
	if r.fail {
		return nil, errors.New("no layout")
	}
	text := fmt.Sprintf("%s v%d w%d", r.id, r.v, args.Width)
	return NewItem("", []render.Line{{Spans: []render.Span{{Text: text}}}}, text), nil
}

func mk(id string, key, v int) row { return row{id: id, key: key, v: v} }

func entries(rows ...row) []Entry {
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func testArgs() Args {
	return Args{Width: 40, Theme: DarkTheme()}
}

func build(seq uint64, base, next []Entry, opts BuildOptions) *Transition {
	return Build(seq, base, next, listdiff.Diff(base, next), testArgs(), opts)
}

// construct 在当前 goroutine 上运行全部工厂。
func construct(t *Transition) Ready {
	items := make([]*Item, len(t.Ops))
	for i, op := range t.Ops {
		items[i] = op.Make()
	}
	return Ready{Transition: t, Items: items}
}

func itemIDs(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

type recorder struct {
	ranges     [][2]int
	firstPaint int
	pagination int
	focus      []string
	commits    []uint64
}

func (r *recorder) OnVisibleRangeChanged(first, last int) {
	r.ranges = append(r.ranges, [2]int{first, last})
}
func (r *recorder) OnReadyForFirstPaint() { r.firstPaint++ }
func (r *recorder) OnPaginationNeeded()   { r.pagination++ }
func (r *recorder) OnFocusApplied(tag string, index int) {
	r.focus = append(r.focus, fmt.Sprintf("%s@%d", tag, index))
}
func (r *recorder) OnCommit(seq uint64, _, _, _, _ int) { r.commits = append(r.commits, seq) }
