// Package history 持久化列表搜索框提交过的查询，每行一条 JSON 记录。
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLimit 加载时保留的最近查询数。
const DefaultLimit = 100

type Entry struct {
	Query  string    `json:"query"`
	Screen string    `json:"screen,omitempty"`
	TS     time.Time `json:"ts"`
}

// Store 是按屏幕区分的查询历史文件。Screen 为空时读取全部记录。
type Store struct {
	Path   string
	Screen string
	Limit  int
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chatview", "search_history.jsonl"), nil
}

func NewDefault(screen string) (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path, Screen: screen}, nil
}

func (s *Store) ensureDir() error {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return errors.New("history store path is empty")
	}
	return os.MkdirAll(filepath.Dir(s.Path), 0o755)
}

// Append 追加一条查询，空白查询被忽略。
func (s *Store) Append(query string) error {
	if s == nil {
		return errors.New("history store is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(Entry{Query: query, Screen: s.Screen, TS: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Queries 按时间顺序返回本屏幕最近的查询。重复查询只保留最后一次，损坏的行被跳过。
func (s *Store) Queries() ([]string, error) {
	if s == nil {
		return nil, errors.New("history store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("history store path is empty")
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var all []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if s.Screen != "" && e.Screen != s.Screen {
			continue
		}
		if q := strings.TrimSpace(e.Query); q != "" {
			all = append(all, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s.trim(all), nil
}

func (s *Store) trim(all []string) []string {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	seen := make(map[string]struct{}, len(all))
	var rev []string
	for i := len(all) - 1; i >= 0 && len(rev) < limit; i-- {
		if _, ok := seen[all[i]]; ok {
			continue
		}
		seen[all[i]] = struct{}{}
		rev = append(rev, all[i])
	}
	out := make([]string, len(rev))
	for i, q := range rev {
		out[len(rev)-1-i] = q
	}
	return out
}
