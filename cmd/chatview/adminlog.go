package main

import (
	"context"
	"fmt"

	"chatview/internal/config"
	"chatview/internal/listview"
	"chatview/internal/screens/adminlog"
	"chatview/internal/tui"

	"github.com/spf13/cobra"
)

type adminLogArgs struct {
	dbPath string
	inline bool
}

func newAdminLogCmd(root *rootOptions) *cobra.Command {
	args := adminLogArgs{}
	cmd := &cobra.Command{
		Use:   "adminlog",
		Short: "Browse the admin action log; scroll up to load earlier entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdminLog(cmd.Context(), root.cfg, args)
		},
	}
	cmd.Flags().StringVar(&args.dbPath, "db", "", "Admin log database (default from config)")
	cmd.Flags().BoolVar(&args.inline, "inline", false, "Render inline instead of using the alternate screen")
	return cmd
}

func resolveDBPath(flag string, cfg config.Config) string {
	if flag != "" {
		return config.ExpandHome(flag)
	}
	return config.ExpandHome(cfg.AdminLog.DBPath)
}

func runAdminLog(ctx context.Context, cfg config.Config, args adminLogArgs) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := adminlog.Open(ctx, resolveDBPath(args.dbPath, cfg))
	if err != nil {
		return fmt.Errorf("open admin log: %w", err)
	}
	defer store.Close()

	bus, cleanup := newEventBus()
	defer cleanup()

	opts, err := baseListOptions("adminlog", "Admin log", cfg)
	if err != nil {
		return err
	}
	var screen *listview.Screen
	producer := adminlog.NewProducer(store, adminlog.ProducerOptions{PageSize: cfg.AdminLog.PageSize},
		func(ctx context.Context, s listview.Snapshot) error { return screen.Push(ctx, s) })

	opts.StickToBottom = true
	attachEvents(ctx, &opts, bus, "adminlog")
	opts.Pager = producer
	opts.Errors = producer.Errors()
	opts.OnStart = producer.Start
	opts.OnResize = producer.SetArgs
	opts.OnActivate = func(ctx context.Context, id string) error {
		_, err := producer.Append(ctx, "chatview", "entry.inspect", id)
		return err
	}

	m := tui.NewListModel(ctx, opts)
	screen = m.Screen()
	return tui.Run(ctx, m, tui.RunOptions{Inline: args.inline})
}
