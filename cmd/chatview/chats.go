package main

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"chatview/internal/config"
	"chatview/internal/history"
	"chatview/internal/listview"
	"chatview/internal/logger"
	"chatview/internal/screens/chatlist"
	"chatview/internal/tui"

	"github.com/spf13/cobra"
)

type chatsArgs struct {
	count    int
	interval time.Duration
	inline   bool
}

func newChatsCmd(root *rootOptions) *cobra.Command {
	args := chatsArgs{}
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "Interactive chat list with a simulated message feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChats(cmd.Context(), root.cfg, args)
		},
	}
	cmd.Flags().IntVar(&args.count, "count", 40, "Number of seeded chats")
	cmd.Flags().DurationVar(&args.interval, "interval", 700*time.Millisecond, "Interval between simulated updates (0 disables)")
	cmd.Flags().BoolVar(&args.inline, "inline", false, "Render inline instead of using the alternate screen")
	return cmd
}

func runChats(ctx context.Context, cfg config.Config, args chatsArgs) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log := logger.Named("chats")

	bus, cleanup := newEventBus()
	defer cleanup()

	opts, err := baseListOptions("chats", "Chats", cfg)
	if err != nil {
		return err
	}
	var producer *chatlist.Producer
	attachEvents(ctx, &opts, bus, "chats")
	opts.OnStart = func(ctx context.Context, _ listview.Args) error {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := producer.Upsert(ctx, chatlist.SeedChats(args.count, time.Now(), rng)...); err != nil {
			return err
		}
		if args.interval > 0 {
			go func() {
				err := chatlist.Simulate(ctx, producer, args.interval, rng)
				if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, listview.ErrScreenClosed) {
					log.Warnf("simulated feed stopped: %v", err)
				}
			}()
		}
		return nil
	}
	opts.OnResize = func(ctx context.Context, a listview.Args) error { return producer.SetArgs(ctx, a) }
	opts.OnSearch = func(ctx context.Context, q string) error { return producer.SetQuery(ctx, q) }
	opts.OnActivate = func(ctx context.Context, id string) error { return producer.MarkRead(ctx, id) }
	if store, err := history.NewDefault("chats"); err != nil {
		log.Warnf("search history disabled: %v", err)
	} else {
		opts.SearchHistory = store
	}

	m := tui.NewListModel(ctx, opts)
	producer = chatlist.NewProducer(chatlist.ProducerOptions{Args: m.Args()}, m.Screen().Push)
	return tui.Run(ctx, m, tui.RunOptions{Inline: args.inline})
}
