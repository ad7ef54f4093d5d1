package events

import (
	"context"
	"errors"
	"sync"

	"chatview/internal/logger"
)

var (
	// ErrInboxClosed 表示收件箱已关闭，无法再投递或接收。
	ErrInboxClosed = errors.New("inbox closed")
)

// Inbox 是一个有界的单消费者收件箱。
//
// 关闭后未被取走的元素直接丢弃；Push 与 Close 并发安全。
type Inbox[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
	log       *logger.LogEntry
	describe  func(T) logger.Fields
}

// NewInbox 创建收件箱，capacity <= 0 时使用 16。
func NewInbox[T any](capacity int) *Inbox[T] {
	if capacity <= 0 {
		capacity = 16
	}
	return &Inbox[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
		log:  logger.Named("inbox"),
	}
}

// SetLogger 覆盖收件箱使用的 logger。
func (q *Inbox[T]) SetLogger(entry *logger.LogEntry) {
	if entry == nil {
		return
	}
	q.log = entry
}

// SetDescriber 设置入队日志附带的字段。
func (q *Inbox[T]) SetDescriber(fn func(T) logger.Fields) {
	q.describe = fn
}

// Push 投递一个元素；队列满时阻塞，直到有空位、ctx 取消或收件箱关闭。
func (q *Inbox[T]) Push(ctx context.Context, v T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrInboxClosed
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrInboxClosed
	case q.ch <- v:
		q.logPush(v)
		return nil
	}
}

// Receive 取出一个元素；收件箱关闭后返回 ErrInboxClosed。
func (q *Inbox[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-q.done:
		return zero, ErrInboxClosed
	default:
	}
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-q.done:
		return zero, ErrInboxClosed
	case v := <-q.ch:
		return v, nil
	}
}

// Len 返回当前排队数量。
func (q *Inbox[T]) Len() int {
	return len(q.ch)
}

// Done 在收件箱关闭时关闭。
func (q *Inbox[T]) Done() <-chan struct{} {
	return q.done
}

// Close 关闭收件箱，可重复调用。
func (q *Inbox[T]) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

func (q *Inbox[T]) logPush(v T) {
	if q.log == nil {
		return
	}
	fields := logger.Fields{"queued": len(q.ch)}
	if q.describe != nil {
		for k, val := range q.describe(v) {
			fields[k] = val
		}
	}
	q.log.WithFields(fields).Debug("pushed into inbox")
}
