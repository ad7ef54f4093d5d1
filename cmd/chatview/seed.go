package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"chatview/internal/config"
	"chatview/internal/screens/adminlog"

	"github.com/spf13/cobra"
)

type seedArgs struct {
	dbPath string
	count  int
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	args := seedArgs{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the admin log database with sample actions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), root.cfg, args)
		},
	}
	cmd.Flags().StringVar(&args.dbPath, "db", "", "Admin log database (default from config)")
	cmd.Flags().IntVar(&args.count, "count", 500, "Number of actions to write")
	return cmd
}

func runSeed(ctx context.Context, out io.Writer, cfg config.Config, args seedArgs) error {
	if args.count <= 0 {
		return fmt.Errorf("count must be positive, got %d", args.count)
	}
	path := resolveDBPath(args.dbPath, cfg)
	store, err := adminlog.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("open admin log: %w", err)
	}
	defer store.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := adminlog.Seed(ctx, store, args.count, time.Now(), rng); err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d actions into %s (%d total)\n", args.count, path, total)
	return nil
}
