package adminlog

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

var (
	seedActors  = []string{"alice", "bob", "carol", "ops-bot", "deploy"}
	seedActions = []string{"user.invite", "user.suspend", "role.grant", "role.revoke", "config.update", "release.promote", "token.rotate"}
)

// Seed 写入 n 条示例记录，时间从 now 之前均匀递增到 now。
func Seed(ctx context.Context, s *Store, n int, now time.Time, rng *rand.Rand) error {
	start := now.Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		actor := seedActors[rng.Intn(len(seedActors))]
		action := seedActions[rng.Intn(len(seedActions))]
		detail := fmt.Sprintf("target=%s-%04d", action[:4], rng.Intn(10000))
		if _, err := s.AppendAt(ctx, at, actor, action, detail); err != nil {
			return fmt.Errorf("seed action %d: %w", i, err)
		}
	}
	return nil
}
