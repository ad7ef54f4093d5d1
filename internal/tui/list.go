package tui

import (
	"context"
	"strings"
	"time"

	"chatview/internal/events"
	"chatview/internal/listview"
	"chatview/internal/logger"
	"chatview/internal/tui/render"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pager 按需加载更早的条目，返回是否真的发起了请求。
type Pager interface {
	LoadEarlier(ctx context.Context) bool
}

// ListOptions 配置 ListModel。
type ListOptions struct {
	Title        string
	Theme        listview.Theme
	Strings      map[string]string
	ShowPreviews bool
	// StickToBottom 为 true 时列表从底部开始显示，新条目到达时保持在底部。
	StickToBottom bool
	Screen        listview.ScreenOptions
	// Observer 额外接收引擎回调（例如 events.Notifier）。
	Observer listview.Consumer
	Pager    Pager
	Errors   <-chan error
	// Events 是事件总线的订阅，提交摘要显示在状态行上。
	Events <-chan events.Event
	// 以下回调在独立的 tea.Cmd goroutine 中执行。
	OnStart    func(ctx context.Context, args listview.Args) error
	OnResize   func(ctx context.Context, args listview.Args) error
	OnSearch   func(ctx context.Context, query string) error
	OnActivate func(ctx context.Context, id string) error
	// SearchHistory 为空时查询历史只保存在内存中。
	SearchHistory SearchHistory
	Clock         func() time.Time
	Logger        *logger.LogEntry
}

type readyMsg struct {
	ready listview.Ready
}

type screenDoneMsg struct{}

type listErrorMsg struct {
	err error
}

type pageDoneMsg struct {
	started bool
}

type statusTickMsg struct{}

type paginationRetryMsg struct{}

type busEventMsg struct {
	event events.Event
}

// ListModel 是列表引擎的 Bubble Tea 宿主；Update 所在的 goroutine 即协调 goroutine。
type ListModel struct {
	ctx    context.Context
	opts   ListOptions
	screen *listview.Screen
	log    *logger.LogEntry

	vp       render.ListViewport
	search   textinput.Model
	queries  queryHistory
	status   *StatusLine
	rendered map[*listview.Item][]string

	width     int
	height    int
	searching bool
	cursor    int
	cursorID  string
	overlay   listview.Overlay
	ticking   bool

	pageWanted bool
	retryAt    time.Time
	quitting   bool
}

// NewListModel 创建宿主及其屏幕。ctx 取消会停止屏幕流水线。
func NewListModel(ctx context.Context, opts ListOptions) *ListModel {
	if opts.Theme.Name == "" {
		opts.Theme = listview.DarkTheme()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("tui")
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search"
	ti.CharLimit = 64

	m := &ListModel{
		ctx:      ctx,
		opts:     opts,
		log:      log,
		search:   ti,
		status:   NewStatusLine(opts.Clock),
		rendered: make(map[*listview.Item][]string),
		width:    80,
		height:   24,
		cursor:   -1,
	}
	if opts.SearchHistory != nil {
		if past, err := opts.SearchHistory.Queries(); err != nil {
			log.Warnf("load search history: %v", err)
		} else {
			m.queries.Set(past)
		}
	}
	m.vp = render.NewListViewport(m.width, m.listHeight())
	m.vp.StickToBottom = opts.StickToBottom

	var consumer listview.Consumer = m
	if opts.Observer != nil {
		consumer = listview.Consumers{m, opts.Observer}
	}
	screenOpts := opts.Screen
	if screenOpts.Logger == nil {
		screenOpts.Logger = log
	}
	if screenOpts.Now == nil {
		screenOpts.Now = opts.Clock
	}
	m.screen = listview.NewScreen(ctx, consumer, screenOpts)
	return m
}

// Screen 返回宿主持有的屏幕，生产者通过它的 Push 投递快照。
func (m *ListModel) Screen() *listview.Screen {
	return m.screen
}

// Args 返回按当前宽度计算的展示参数。
func (m *ListModel) Args() listview.Args {
	return listview.Args{
		Width:   m.vp.Width,
		Theme:   m.opts.Theme,
		Strings: m.opts.Strings,
		Interaction: listview.Interaction{
			ShowPreviews: m.opts.ShowPreviews,
			Selectable:   true,
		},
	}
}

// Cursor 返回光标所在的可视项 ID。
func (m *ListModel) Cursor() string {
	return m.cursorID
}

// Overlay 返回当前覆盖层。
func (m *ListModel) Overlay() listview.Overlay {
	return m.overlay
}

func (m *ListModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenReady(), m.startTicking()}
	if cmd := m.listenErrors(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.listenEvents(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.opts.OnStart != nil {
		args := m.Args()
		cmds = append(cmds, m.run(func(ctx context.Context) error { return m.opts.OnStart(ctx, args) }))
	}
	return tea.Batch(cmds...)
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, m.resize(msg.Width, msg.Height))
	case readyMsg:
		m.commit(msg.ready)
		cmds = append(cmds, m.listenReady())
	case screenDoneMsg:
		return m, nil
	case listErrorMsg:
		m.log.Warnf("list error: %v", msg.err)
		m.status.SetError(msg.err)
		cmds = append(cmds, m.listenErrors())
	case pageDoneMsg:
		if m.status.State() == StatusPaging {
			m.status.SetState(StatusIdle)
		}
	case statusTickMsg:
		m.ticking = false
		cmds = append(cmds, m.startTicking())
	case paginationRetryMsg:
		m.retryAt = time.Time{}
		m.reportRange()
	case busEventMsg:
		if sum, ok := msg.event.Payload.(events.CommitSummary); ok && msg.event.Type == events.EventCommit {
			m.status.SetLastCommit(sum)
		}
		cmds = append(cmds, m.listenEvents())
	case tea.MouseMsg:
		cmds = append(cmds, m.vp.HandleUpdate(msg))
		m.reportRange()
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	if m.pageWanted {
		m.pageWanted = false
		cmds = append(cmds, m.loadEarlier())
	}
	cmds = append(cmds, m.scheduleRetry())
	return m, tea.Batch(cmds...)
}

func (m *ListModel) View() string {
	if m.quitting {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Render(m.opts.Title)
	parts := []string{title, m.body()}
	if m.searching {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, m.status.View(m.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Close 拆除屏幕，必须在协调 goroutine 上调用。
func (m *ListModel) Close() {
	m.screen.Close()
	m.screen.CloseCoordinator()
	clear(m.rendered)
}

func (m *ListModel) OnVisibleRangeChanged(first, last int) {
	m.log.WithField("first", first).WithField("last", last).Trace("visible range changed")
}

func (m *ListModel) OnReadyForFirstPaint() {
	if m.status.State() == StatusLoading {
		m.status.SetState(StatusIdle)
	}
}

func (m *ListModel) OnPaginationNeeded() {
	if m.opts.Pager != nil {
		m.pageWanted = true
	}
}

func (m *ListModel) OnFocusApplied(tag string, index int) {
	m.log.WithField("tag", tag).Debugf("focus applied at %d", index)
}

func (m *ListModel) commit(r listview.Ready) {
	anchorID, delta := m.anchor()
	wasBottom := m.vp.AtBottom()

	applied := m.screen.Commit(r)
	if applied.Dropped {
		return
	}
	if applied.Overlay != nil {
		m.overlay = applied.Overlay.Next
	}

	items := m.screen.Coordinator().Items()
	switch {
	case applied.FocusIndex >= 0:
		m.cursor = applied.FocusIndex
	case m.cursorID != "":
		m.cursor = indexOfItem(items, m.cursorID)
	}
	if m.cursor < 0 || m.cursor >= len(items) {
		m.cursor = firstFocusable(items)
	}
	m.syncCursorID()
	m.rebuild()

	if idx := indexOfItem(items, anchorID); idx >= 0 && !(m.opts.StickToBottom && wasBottom) {
		m.vp.RestoreAnchor(idx, delta)
	}
	if applied.FocusIndex >= 0 {
		m.scrollToCursor()
	}
	m.reportRange()
}

func (m *ListModel) anchor() (string, int) {
	idx, delta := m.vp.Anchor()
	if it := m.screen.Coordinator().Item(idx); it != nil {
		return it.ID, delta
	}
	return "", 0
}

// rebuild 把可视项渲染成视口内容；未选中的可视项按指针缓存。
func (m *ListModel) rebuild() {
	items := m.screen.Coordinator().Items()
	live := make(map[*listview.Item]struct{}, len(items))
	var lines []string
	heights := make([]int, 0, len(items))
	for i, it := range items {
		live[it] = struct{}{}
		var rows []string
		if i == m.cursor {
			rows = m.renderSelected(it)
		} else {
			rows = m.renderItem(it)
		}
		lines = append(lines, rows...)
		heights = append(heights, len(rows))
	}
	for it := range m.rendered {
		if _, ok := live[it]; !ok {
			delete(m.rendered, it)
		}
	}
	m.vp.SetItems(lines, heights)
	m.status.SetCount(len(items))
}

func (m *ListModel) renderItem(it *listview.Item) []string {
	if rows, ok := m.rendered[it]; ok {
		return rows
	}
	var buf render.Buffer
	it.Render(render.Rect{Width: m.vp.Width}, &buf)
	rows := render.LinesToStrings(buf.Lines)
	if len(rows) == 0 {
		rows = []string{""}
	}
	m.rendered[it] = rows
	return rows
}

func (m *ListModel) renderSelected(it *listview.Item) []string {
	plain := render.LinesToPlainStrings(it.Lines)
	if len(plain) == 0 {
		plain = []string{""}
	}
	style := m.opts.Theme.Selected.Width(m.vp.Width)
	rows := make([]string, 0, len(plain))
	for _, p := range plain {
		rows = append(rows, style.Render(render.TruncateANSI(p, m.vp.Width)))
	}
	return rows
}

func (m *ListModel) body() string {
	if m.overlay.IsZero() {
		return m.vp.View()
	}
	th := m.opts.Theme
	box := render.Padded{
		Child: render.Stack{
			render.Text{Body: m.overlay.Title, Style: th.Primary},
			render.Text{Body: m.overlay.Body, Style: th.Muted},
		},
		Padding: render.Pad(1, 2),
	}
	var buf render.Buffer
	box.Render(render.Rect{Width: m.width, Height: m.vp.Height}, &buf)
	rows := render.LinesToStrings(buf.Lines)
	for len(rows) < m.vp.Height {
		rows = append(rows, "")
	}
	return strings.Join(rows[:m.vp.Height], "\n")
}

func (m *ListModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.Close()
		return tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.vp.PageUp()
		m.reportRange()
	case "pgdown":
		m.vp.PageDown()
		m.reportRange()
	case "home", "g":
		m.vp.GotoTop()
		m.reportRange()
	case "end", "G":
		m.vp.GotoBottom()
		m.reportRange()
	case "/":
		if m.opts.OnSearch == nil {
			return nil
		}
		m.searching = true
		m.layout()
		return m.search.Focus()
	case "y":
		return m.copyCursor()
	case "enter":
		if m.opts.OnActivate == nil || m.cursorID == "" {
			return nil
		}
		id := m.cursorID
		return m.run(func(ctx context.Context) error { return m.opts.OnActivate(ctx, id) })
	}
	return nil
}

func (m *ListModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.layout()
		m.status.SetQuery("")
		return m.runSearch("")
	case "enter":
		m.searching = false
		m.search.Blur()
		m.layout()
		return m.rememberQuery(m.search.Value())
	case "up":
		if q, ok := m.queries.Prev(m.search.Value()); ok {
			return m.replaceQuery(q)
		}
		return nil
	case "down":
		if q, ok := m.queries.Next(); ok {
			return m.replaceQuery(q)
		}
		return nil
	case "ctrl+c":
		m.quitting = true
		m.Close()
		return tea.Quit
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.status.SetQuery(q)
		return tea.Batch(cmd, m.runSearch(q))
	}
	return cmd
}

func (m *ListModel) replaceQuery(q string) tea.Cmd {
	if q == m.search.Value() {
		return nil
	}
	m.search.SetValue(q)
	m.search.CursorEnd()
	m.status.SetQuery(q)
	return m.runSearch(q)
}

func (m *ListModel) rememberQuery(q string) tea.Cmd {
	if !m.queries.Add(q) || m.opts.SearchHistory == nil {
		return nil
	}
	q = strings.TrimSpace(q)
	return m.run(func(context.Context) error { return m.opts.SearchHistory.Append(q) })
}

func (m *ListModel) runSearch(q string) tea.Cmd {
	return m.run(func(ctx context.Context) error { return m.opts.OnSearch(ctx, q) })
}

func (m *ListModel) moveCursor(delta int) {
	items := m.screen.Coordinator().Items()
	i := m.cursor + delta
	for i >= 0 && i < len(items) && !items[i].Focusable {
		i += delta
	}
	if i < 0 || i >= len(items) {
		return
	}
	m.cursor = i
	m.syncCursorID()
	m.rebuild()
	m.scrollToCursor()
	m.reportRange()
}

func (m *ListModel) syncCursorID() {
	m.cursorID = ""
	if it := m.screen.Coordinator().Item(m.cursor); it != nil {
		m.cursorID = it.ID
	}
}

func (m *ListModel) scrollToCursor() {
	if it := m.screen.Coordinator().Item(m.cursor); it != nil {
		m.vp.ScrollToItem(m.cursor, it.Height())
	}
}

func (m *ListModel) reportRange() {
	first, last := m.vp.VisibleRange()
	m.screen.SetVisibleRange(first, last)
}

func (m *ListModel) copyCursor() tea.Cmd {
	it := m.screen.Coordinator().Item(m.cursor)
	if it == nil {
		return nil
	}
	text := it.PlainText()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return listErrorMsg{err: err}
		}
		return nil
	}
}

func (m *ListModel) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	widthChanged := m.vp.Resize(width, m.listHeight())
	m.search.Width = max(width-4, 1)
	if !widthChanged {
		m.reportRange()
		return nil
	}
	clear(m.rendered)
	m.rebuild()
	m.reportRange()
	if m.opts.OnResize == nil {
		return nil
	}
	args := m.Args()
	return m.run(func(ctx context.Context) error { return m.opts.OnResize(ctx, args) })
}

func (m *ListModel) layout() {
	m.vp.Resize(m.width, m.listHeight())
	m.reportRange()
}

func (m *ListModel) listHeight() int {
	h := m.height - 2
	if m.searching {
		h--
	}
	return max(h, 1)
}

func (m *ListModel) loadEarlier() tea.Cmd {
	pager := m.opts.Pager
	if pager == nil {
		return nil
	}
	m.status.SetState(StatusPaging)
	ctx := m.ctx
	return tea.Batch(m.startTicking(), func() tea.Msg {
		return pageDoneMsg{started: pager.LoadEarlier(ctx)}
	})
}

// scheduleRetry 在分页请求被冷却压下时，安排冷却结束后重新报告可见范围。
func (m *ListModel) scheduleRetry() tea.Cmd {
	at, ok := m.screen.Coordinator().PaginationRetryAt()
	if !ok || at.Equal(m.retryAt) {
		return nil
	}
	m.retryAt = at
	d := at.Sub(m.now())
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return paginationRetryMsg{} })
}

func (m *ListModel) now() time.Time {
	if m.opts.Clock != nil {
		return m.opts.Clock()
	}
	return time.Now()
}

func (m *ListModel) startTicking() tea.Cmd {
	if m.ticking || !m.status.State().tracksElapsed() {
		return nil
	}
	m.ticking = true
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return statusTickMsg{} })
}

func (m *ListModel) listenReady() tea.Cmd {
	ready, done := m.screen.Ready(), m.screen.Done()
	return func() tea.Msg {
		select {
		case r := <-ready:
			return readyMsg{ready: r}
		case <-done:
			return screenDoneMsg{}
		}
	}
}

func (m *ListModel) listenErrors() tea.Cmd {
	errs, done := m.opts.Errors, m.screen.Done()
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return listErrorMsg{err: err}
		case <-done:
			return nil
		}
	}
}

func (m *ListModel) listenEvents() tea.Cmd {
	evs, done := m.opts.Events, m.screen.Done()
	if evs == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev, ok := <-evs:
			if !ok {
				return nil
			}
			return busEventMsg{event: ev}
		case <-done:
			return nil
		}
	}
}

func (m *ListModel) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return listErrorMsg{err: err}
		}
		return nil
	}
}

func indexOfItem(items []*listview.Item, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func firstFocusable(items []*listview.Item) int {
	for i, it := range items {
		if it.Focusable {
			return i
		}
	}
	return -1
}
