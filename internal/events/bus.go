package events

import (
	"context"
	"errors"
	"sync"

	"chatview/internal/logger"
)

var (
	// ErrBusClosed 表示事件总线已关闭。
	ErrBusClosed = errors.New("event bus closed")
	// ErrEventDropped 表示事件被慢消费者丢弃。
	ErrEventDropped = errors.New("event dropped by slow subscriber")
)

// Bus 负责事件广播，每个订阅者一个带缓冲的通道。
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	buffer int
	closed bool
	log    *logger.LogEntry
}

// NewBus 创建事件总线，buffer 是每个订阅者的缓存大小。
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{buffer: buffer, log: logger.Named("bus")}
}

// SetLogger 覆盖总线使用的 logger。
func (b *Bus) SetLogger(entry *logger.LogEntry) {
	if entry == nil {
		return
	}
	b.log = entry
}

// Subscribe 订阅事件流。通道会在 Close 时关闭。
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish 发布事件到所有订阅者，不会阻塞在慢消费者上。若存在丢弃，则返回 ErrEventDropped。
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logEvent(event)

	dropped := false
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			dropped = true
		}
	}
	if dropped {
		b.log.WithField("type", event.Type).Warn("slow subscriber dropped event")
		return ErrEventDropped
	}
	return nil
}

// Close 关闭总线和所有订阅通道。
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

// SubscriberCount 返回当前订阅者数量。
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) logEvent(event Event) {
	if b.log == nil {
		return
	}
	fields := logger.Fields{"type": event.Type}
	if event.Screen != "" {
		fields["screen"] = event.Screen
	}
	if event.Seq != 0 {
		fields["seq"] = event.Seq
	}
	if payload := encodePayload(event.Payload); payload != "" {
		fields["payload"] = payload
	}
	b.log.WithFields(fields).Debug("published list event")
}
