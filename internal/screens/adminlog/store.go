// Package adminlog 是管理操作日志屏幕：SQLite 存储，向前翻页加载更早的记录。
package adminlog

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Action 是一条管理操作记录。ID 按时间有序。
type Action struct {
	ID     ulid.ULID
	At     time.Time
	Actor  string
	Action string
	Detail string
}

// Store 是操作日志的 SQLite 存储。
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// Open 打开（必要时创建）数据库并完成迁移。
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open admin log: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}
	s := &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			at_unixms INTEGER NOT NULL,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			detail TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate admin log: %w", err)
		}
	}
	return nil
}

// Close 关闭数据库。
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append 以当前时间写入一条记录。
func (s *Store) Append(ctx context.Context, actor, action, detail string) (Action, error) {
	return s.AppendAt(ctx, s.now(), actor, action, detail)
}

// AppendAt 以指定时间写入一条记录。同一毫秒内的 ID 单调递增。
func (s *Store) AppendAt(ctx context.Context, at time.Time, actor, action, detail string) (Action, error) {
	s.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(at), s.entropy)
	s.mu.Unlock()
	if err != nil {
		return Action{}, fmt.Errorf("new action id: %w", err)
	}
	a := Action{ID: id, At: at.UTC().Truncate(time.Millisecond), Actor: actor, Action: action, Detail: detail}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO actions(id, at_unixms, actor, action, detail) VALUES(?, ?, ?, ?, ?)`,
		a.ID.String(), a.At.UnixMilli(), a.Actor, a.Action, a.Detail,
	)
	if err != nil {
		return Action{}, fmt.Errorf("insert action: %w", err)
	}
	return a, nil
}

// Latest 返回最新的 limit 条记录，按 ID 升序。
func (s *Store) Latest(ctx context.Context, limit int) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at_unixms, actor, action, detail FROM actions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest actions: %w", err)
	}
	return scanDescending(rows)
}

// Before 返回 ID 早于 id 的 limit 条记录，按 ID 升序。
func (s *Store) Before(ctx context.Context, id ulid.ULID, limit int) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at_unixms, actor, action, detail FROM actions WHERE id < ? ORDER BY id DESC LIMIT ?`,
		id.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query actions before %s: %w", id, err)
	}
	return scanDescending(rows)
}

// Count 返回记录总数。
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return n, nil
}

func scanDescending(rows *sql.Rows) ([]Action, error) {
	defer rows.Close()
	var out []Action
	for rows.Next() {
		var (
			id string
			ms int64
			a  Action
		)
		if err := rows.Scan(&id, &ms, &a.Actor, &a.Action, &a.Detail); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		parsed, err := ulid.ParseStrict(id)
		if err != nil {
			return nil, fmt.Errorf("parse action id %q: %w", id, err)
		}
		a.ID = parsed
		a.At = time.UnixMilli(ms).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(errors.New("iterate actions"), err)
	}
	slices.Reverse(out)
	return out, nil
}
