package tui

import (
	"fmt"
	"time"

	"chatview/internal/events"
	"chatview/internal/tui/render"

	"github.com/charmbracelet/lipgloss"
)

// StatusState 枚举列表状态行可显示的状态。
type StatusState int

const (
	// StatusLoading 表示首屏尚未绘制，计时器持续累加。
	StatusLoading StatusState = iota
	// StatusPaging 表示正在加载更早的记录，计时器持续累加。
	StatusPaging
	// StatusIdle 只显示条目数。
	StatusIdle
	// StatusError 表示最近一次取数失败。
	StatusError
)

func (s StatusState) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPaging:
		return "paging"
	case StatusIdle:
		return "idle"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

func (s StatusState) defaultHeader() string {
	switch s {
	case StatusLoading:
		return "Loading"
	case StatusPaging:
		return "Loading earlier"
	case StatusError:
		return "Error"
	default:
		return ""
	}
}

func (s StatusState) tracksElapsed() bool {
	return s == StatusLoading || s == StatusPaging
}

// StatusLine 渲染列表底部的状态行：spinner + 标题 + 计时 + 条目数。
type StatusLine struct {
	state  StatusState
	header string
	count  int
	query  string
	commit string

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock func() time.Time
}

// NewStatusLine 构造处于 Loading 的状态行。clock 为空时使用 time.Now。
func NewStatusLine(clock func() time.Time) *StatusLine {
	if clock == nil {
		clock = time.Now
	}
	return &StatusLine{
		state:        StatusLoading,
		header:       StatusLoading.defaultHeader(),
		clock:        clock,
		lastResumeAt: clock(),
	}
}

// State 返回当前状态。
func (w *StatusLine) State() StatusState {
	if w == nil {
		return StatusIdle
	}
	return w.state
}

// SetState 切换状态；进入计时状态时计时从零开始。
func (w *StatusLine) SetState(state StatusState) {
	if w == nil {
		return
	}
	now := w.clock()
	if state.tracksElapsed() && state != w.state {
		w.elapsedRunning = 0
		w.lastResumeAt = now
		w.paused = false
	} else if !state.tracksElapsed() {
		w.pauseTimerAt(now)
	}
	w.state = state
	w.header = state.defaultHeader()
}

// SetError 进入错误态并把错误作为标题。
func (w *StatusLine) SetError(err error) {
	if w == nil || err == nil {
		return
	}
	w.SetState(StatusError)
	w.header = fmt.Sprintf("Error: %v", err)
}

// SetCount 更新条目数。
func (w *StatusLine) SetCount(n int) {
	if w != nil {
		w.count = n
	}
}

// SetQuery 更新正在使用的搜索词。
func (w *StatusLine) SetQuery(q string) {
	if w != nil {
		w.query = q
	}
}

// SetLastCommit 记录最近一次提交的增删改数量。
func (w *StatusLine) SetLastCommit(sum events.CommitSummary) {
	if w == nil {
		return
	}
	w.commit = fmt.Sprintf("+%d -%d ~%d", sum.Insertions, sum.Deletions, sum.Updates)
}

// ElapsedSeconds 返回累计秒数。
func (w *StatusLine) ElapsedSeconds() uint64 {
	if w == nil {
		return 0
	}
	return uint64(w.elapsedDurationAt(w.clock()).Seconds())
}

func (w *StatusLine) DesiredHeight(int) int {
	if w == nil {
		return 0
	}
	return 1
}

func (w *StatusLine) Render(area render.Rect, buf *render.Buffer) {
	if w == nil || buf == nil || area.Height <= 0 || area.Width <= 0 {
		return
	}
	now := w.clock()
	faint := lipgloss.NewStyle().Faint(true)

	var spans []render.Span
	if frame := w.spinnerFrame(now); frame != "" {
		spans = append(spans, render.Span{Text: frame + " "})
	}
	if w.header != "" {
		style := lipgloss.NewStyle()
		if w.state == StatusError {
			style = style.Foreground(lipgloss.Color("203"))
		}
		spans = append(spans, render.Span{Text: w.header, Style: style}, render.Span{Text: " "})
	}
	if w.state.tracksElapsed() {
		elapsed := fmtElapsedCompact(uint64(w.elapsedDurationAt(now).Seconds()))
		spans = append(spans, render.Span{Text: "(" + elapsed + ") ", Style: faint})
	}
	summary := fmt.Sprintf("%d items", w.count)
	if w.query != "" {
		summary += fmt.Sprintf(" • search %q", w.query)
	}
	if w.commit != "" {
		summary += " • " + w.commit
	}
	spans = append(spans, render.Span{Text: summary, Style: faint})

	buf.WriteLine(render.TruncateLine(render.Line{Spans: spans}, area.Width))
}

// View 按宽度渲染为字符串。
func (w *StatusLine) View(width int) string {
	var buf render.Buffer
	w.Render(render.Rect{Width: width, Height: 1}, &buf)
	if len(buf.Lines) == 0 {
		return ""
	}
	return render.LinesToStrings(buf.Lines)[0]
}

func (w *StatusLine) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *StatusLine) elapsedDurationAt(now time.Time) time.Duration {
	if w.paused {
		return w.elapsedRunning
	}
	return w.elapsedRunning + now.Sub(w.lastResumeAt)
}

func (w *StatusLine) spinnerFrame(now time.Time) string {
	switch w.state {
	case StatusError:
		return "!"
	case StatusIdle:
		return ""
	}
	frames := []string{"-", "\\", "|", "/"}
	return frames[int(now.UnixMilli()/120)%len(frames)]
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}
