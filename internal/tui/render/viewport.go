package render

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ListViewport 包装 bubbles viewport，并按可视项高度维护行偏移，
// 用于把滚动位置换算成可见的可视项区间。
type ListViewport struct {
	viewport.Model
	// StickToBottom 为 true 时，内容更新前处于底部则更新后仍停在底部。
	StickToBottom bool

	lastLines []string
	offsets   []int
	total     int
}

// NewListViewport 创建视口。
func NewListViewport(width, height int) ListViewport {
	vp := viewport.New(width, height)
	return ListViewport{Model: vp}
}

// Resize 更新宽高，返回宽度是否变化（宽度变化意味着需要重建可视项）。
func (v *ListViewport) Resize(width, height int) bool {
	if v == nil {
		return false
	}
	widthChanged := v.Width != width
	v.Width = width
	v.Height = height
	if widthChanged {
		v.Invalidate()
	}
	v.SetYOffset(v.YOffset)
	return widthChanged
}

// HandleUpdate 代理 bubbles 的 Update，保持内部状态。
func (v *ListViewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetItems 设置渲染好的行以及每个可视项占用的行数。
func (v *ListViewport) SetItems(lines []string, heights []int) {
	if v == nil {
		return
	}
	v.offsets = v.offsets[:0]
	total := 0
	for _, h := range heights {
		v.offsets = append(v.offsets, total)
		total += h
	}
	v.total = total
	if slices.Equal(lines, v.lastLines) {
		return
	}
	stick := v.StickToBottom && (v.AtBottom() || v.lastLines == nil)
	v.lastLines = append([]string(nil), lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stick {
		v.GotoBottom()
	}
}

// ItemCount 返回可视项数量。
func (v *ListViewport) ItemCount() int {
	return len(v.offsets)
}

// ItemAtLine 返回包含第 line 行的可视项下标，越界时返回 -1。
func (v *ListViewport) ItemAtLine(line int) int {
	if line < 0 || line >= v.total || len(v.offsets) == 0 {
		return -1
	}
	return sort.Search(len(v.offsets), func(i int) bool { return v.offsets[i] > line }) - 1
}

// ItemOffset 返回第 i 个可视项的起始行。
func (v *ListViewport) ItemOffset(i int) int {
	if i < 0 || i >= len(v.offsets) {
		return 0
	}
	return v.offsets[i]
}

// VisibleRange 返回完全或部分可见的可视项闭区间；没有可视项时返回 (0, -1)。
func (v *ListViewport) VisibleRange() (first, last int) {
	if len(v.offsets) == 0 || v.Height <= 0 {
		return 0, -1
	}
	first = v.ItemAtLine(v.YOffset)
	if first < 0 {
		first = 0
	}
	bottom := v.YOffset + v.Height - 1
	if bottom >= v.total {
		bottom = v.total - 1
	}
	last = v.ItemAtLine(bottom)
	if last < first {
		last = first
	}
	return first, last
}

// Anchor 返回顶部可视项下标及视口在该项内的行偏移。
func (v *ListViewport) Anchor() (index, delta int) {
	index = v.ItemAtLine(v.YOffset)
	if index < 0 {
		return -1, 0
	}
	return index, v.YOffset - v.offsets[index]
}

// RestoreAnchor 让第 index 个可视项回到 Anchor 记录时的位置。
func (v *ListViewport) RestoreAnchor(index, delta int) {
	if index < 0 || index >= len(v.offsets) {
		return
	}
	v.SetYOffset(v.offsets[index] + delta)
}

// ScrollToItem 滚动最少的行数让第 i 个可视项完整可见。
func (v *ListViewport) ScrollToItem(i, height int) {
	if i < 0 || i >= len(v.offsets) {
		return
	}
	top := v.offsets[i]
	bottom := top + height - 1
	switch {
	case top < v.YOffset:
		v.SetYOffset(top)
	case bottom >= v.YOffset+v.Height:
		v.SetYOffset(bottom - v.Height + 1)
	}
}

// Invalidate 清空已缓存的行，强制下次 SetItems 全量更新。
func (v *ListViewport) Invalidate() {
	if v == nil {
		return
	}
	v.lastLines = nil
}
