package listview

import (
	"fmt"
	"slices"
	"time"

	"chatview/internal/listdiff"
)

// Direction 是删除动画的方向提示。
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// Deletion 是带方向提示的删除。Index 为旧序列下标。
type Deletion struct {
	Index     int
	ID        string
	Direction Direction
}

// Flags 控制提交时的动画选项。
type Flags struct {
	// Synchronous 表示首屏：不做动画，构造在调用方 goroutine 上完成。
	Synchronous       bool
	AnimateInsertions bool
	Crossfade         bool
}

// Overlay 是覆盖在列表之上的辅助视图（例如搜索无结果提示），零值表示无覆盖层。
type Overlay struct {
	ID    string
	Title string
	Body  string
}

// IsZero 报告是否没有覆盖层。
func (o Overlay) IsZero() bool {
	return o == Overlay{}
}

// OpKind 区分插入与更新。
type OpKind int

const (
	OpInsert OpKind = iota
	OpUpdate
)

// Factory 构造一个可视项。不会返回 nil，失败时返回占位项。
type Factory func() *Item

// Op 是一次需要构造可视项的插入或更新。
type Op struct {
	Kind          OpKind
	Index         int
	PreviousIndex int
	Entry         Entry
	Make          Factory
}

// Transition 是一次从 Base 到 Target 的一次性过渡，只能被提交一次。
//
// Ops 先按 Index 升序列出全部插入，再按 Index 升序列出全部更新。
type Transition struct {
	Seq            uint64
	Base           []Entry
	Target         []Entry
	Script         listdiff.Script[Entry]
	Deletions      []Deletion
	Ops            []Op
	Args           Args
	Flags          Flags
	CanLoadEarlier bool
	Focus          string
	Overlay        Overlay
	Created        time.Time
}

// Insertions 返回插入操作的数量。
func (t *Transition) Insertions() int {
	return len(t.Script.Insertions)
}

// Updates 返回更新操作的数量。
func (t *Transition) Updates() int {
	return len(t.Script.Updates)
}

// BuildOptions 是 Build 的可选参数，多来自快照。
type BuildOptions struct {
	Flags          Flags
	CanLoadEarlier bool
	Focus          string
	Overlay        Overlay
	// Refresh 为 true 时，原地保留的条目也作为更新重建（展示参数变化）。
	Refresh bool
}

// Build 由编辑脚本生成过渡。纯函数：不运行任何工厂，也没有副作用。
func Build(seq uint64, base, next []Entry, script listdiff.Script[Entry], args Args, opts BuildOptions) *Transition {
	if opts.Refresh {
		script = refreshScript(base, next, script)
	}
	t := &Transition{
		Seq:            seq,
		Base:           base,
		Target:         next,
		Script:         script,
		Args:           args,
		Flags:          opts.Flags,
		CanLoadEarlier: opts.CanLoadEarlier,
		Focus:          opts.Focus,
		Overlay:        opts.Overlay,
		Created:        time.Now(),
	}
	t.Flags.Synchronous = len(base) == 0

	movedTo := make(map[int]int, script.Moves())
	for _, ins := range script.Insertions {
		if ins.PreviousIndex != listdiff.NoIndex {
			movedTo[ins.PreviousIndex] = ins.Index
		}
	}
	t.Deletions = make([]Deletion, 0, len(script.Deletions))
	for _, i := range script.Deletions {
		d := Deletion{Index: i, Direction: DirectionNone}
		if i < len(base) {
			d.ID = base[i].StableID()
		}
		if j, ok := movedTo[i]; ok {
			if j < i {
				d.Direction = DirectionUp
			} else {
				d.Direction = DirectionDown
			}
		}
		t.Deletions = append(t.Deletions, d)
	}

	t.Ops = make([]Op, 0, len(script.Insertions)+len(script.Updates))
	for _, ins := range script.Insertions {
		t.Ops = append(t.Ops, Op{
			Kind:          OpInsert,
			Index:         ins.Index,
			PreviousIndex: ins.PreviousIndex,
			Entry:         ins.Entry,
			Make:          factoryFor(ins.Entry, args),
		})
	}
	for _, u := range script.Updates {
		t.Ops = append(t.Ops, Op{
			Kind:          OpUpdate,
			Index:         u.Index,
			PreviousIndex: u.PreviousIndex,
			Entry:         u.Entry,
			Make:          factoryFor(u.Entry, args),
		})
	}
	return t
}

// refreshScript 把 next 中原地保留且未变化的条目补成更新。
func refreshScript(base, next []Entry, script listdiff.Script[Entry]) listdiff.Script[Entry] {
	touched := make(map[int]bool, len(script.Insertions)+len(script.Updates))
	for _, ins := range script.Insertions {
		touched[ins.Index] = true
	}
	for _, u := range script.Updates {
		touched[u.Index] = true
	}
	oldIndex := make(map[string]int, len(base))
	for i, e := range base {
		if _, dup := oldIndex[e.StableID()]; !dup {
			oldIndex[e.StableID()] = i
		}
	}
	updates := slices.Clone(script.Updates)
	for j, e := range next {
		if touched[j] {
			continue
		}
		prev, ok := oldIndex[e.StableID()]
		if !ok {
			prev = listdiff.NoIndex
		}
		updates = append(updates, listdiff.Update[Entry]{Index: j, Entry: e, PreviousIndex: prev})
	}
	slices.SortFunc(updates, func(a, b listdiff.Update[Entry]) int { return a.Index - b.Index })
	script.Updates = updates
	return script
}

func factoryFor(e Entry, args Args) Factory {
	return func() (it *Item) {
		id := e.StableID()
		defer func() {
			if r := recover(); r != nil {
				it = NewPlaceholder(id, fmt.Errorf("make item %s panicked: %v", id, r), args)
			}
		}()
		item, err := e.MakeItem(args)
		if err != nil {
			return NewPlaceholder(id, fmt.Errorf("make item %s: %w", id, err), args)
		}
		if item == nil {
			return NewPlaceholder(id, errNilItem, args)
		}
		if item.ID == "" {
			item.ID = id
		}
		return item
	}
}
