package chatlist

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

var (
	sampleTitles = []string{
		"Release planning", "Design review", "On-call", "Family", "Book club",
		"Infra alerts", "Weekend hiking", "Frontend guild", "Coffee", "Support escalations",
		"Hiring loop", "Ops standup", "产品讨论", "读书会", "Travel 2026",
	}
	sampleMessages = []string{
		"sounds good, ship it",
		"can someone take a look at the flaky test in the queue package? it fails roughly once every fifty runs",
		"```go\nfunc main() { fmt.Println(\"hello\") }\n```",
		"lunch at noon?",
		"the dashboard is red again, rolling back",
		"明天上午十点开会",
		"```sql\nSELECT id, at FROM actions ORDER BY id DESC LIMIT 50;\n```",
		"thanks!",
	}
)

// SeedChats 生成 n 个示例会话，前两个置顶。
func SeedChats(n int, now time.Time, rng *rand.Rand) []Chat {
	chats := make([]Chat, 0, n)
	for i := 0; i < n; i++ {
		c := Chat{
			ID:          fmt.Sprintf("chat-%03d", i),
			Title:       sampleTitles[i%len(sampleTitles)],
			LastMessage: sampleMessages[rng.Intn(len(sampleMessages))],
			LastAt:      now.Add(-time.Duration(rng.Intn(72*60)) * time.Minute),
			Unread:      rng.Intn(4),
			Muted:       rng.Intn(5) == 0,
		}
		if i >= len(sampleTitles) {
			c.Title = fmt.Sprintf("%s #%d", c.Title, i/len(sampleTitles)+1)
		}
		if i < 2 {
			c.Pinned = true
			c.PinOrder = i
		}
		chats = append(chats, c)
	}
	return chats
}

// Simulate 每隔 interval 随机产生一次变化：新消息、已读、置顶切换或删除。ctx 取消时返回。
func Simulate(ctx context.Context, p *Producer, interval time.Duration, rng *rand.Rand) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	next := p.Len()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := step(ctx, p, rng, &next); err != nil {
			return err
		}
	}
}

func step(ctx context.Context, p *Producer, rng *rand.Rand, next *int) error {
	id := fmt.Sprintf("chat-%03d", rng.Intn(*next+1))
	c, ok := p.Chat(id)
	switch roll := rng.Intn(10); {
	case !ok:
		*next++
		c = Chat{
			ID:          fmt.Sprintf("chat-%03d", *next),
			Title:       sampleTitles[rng.Intn(len(sampleTitles))],
			LastMessage: sampleMessages[rng.Intn(len(sampleMessages))],
			LastAt:      time.Now(),
			Unread:      1,
		}
		return p.Upsert(ctx, c)
	case roll < 6:
		c.LastMessage = sampleMessages[rng.Intn(len(sampleMessages))]
		c.LastAt = time.Now()
		c.Unread++
		return p.Upsert(ctx, c)
	case roll < 8:
		return p.MarkRead(ctx, id)
	case roll < 9:
		c.Pinned = !c.Pinned
		c.PinOrder = rng.Intn(10)
		return p.Upsert(ctx, c)
	default:
		return p.Remove(ctx, id)
	}
}
