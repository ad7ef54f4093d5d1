package tui

import "strings"

// SearchHistory 持久化搜索框提交过的查询。
type SearchHistory interface {
	Append(query string) error
	Queries() ([]string, error)
}

// queryHistory 负责搜索框的历史浏览状态（上下箭头）。
// cursor == len(entries) 表示当前在正在输入的查询上。
type queryHistory struct {
	entries []string
	cursor  int
	draft   string
}

func (h *queryHistory) Set(entries []string) {
	h.entries = append([]string(nil), entries...)
	h.cursor = len(h.entries)
	h.draft = ""
}

// Add 记录一条查询；与最后一条相同时不重复记录。
func (h *queryHistory) Add(query string) bool {
	query = strings.TrimSpace(query)
	h.ResetBrowsing()
	if query == "" {
		return false
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == query {
		return false
	}
	h.entries = append(h.entries, query)
	h.cursor = len(h.entries)
	return true
}

func (h *queryHistory) Browsing() bool {
	return h.cursor < len(h.entries)
}

func (h *queryHistory) ResetBrowsing() {
	h.cursor = len(h.entries)
	h.draft = ""
}

func (h *queryHistory) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

func (h *queryHistory) Next() (string, bool) {
	if len(h.entries) == 0 || h.cursor == len(h.entries) {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		return h.entries[h.cursor], true
	}
	h.cursor = len(h.entries)
	return h.draft, true
}
