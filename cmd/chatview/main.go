package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chatview/internal/logger"
)

func main() {
	logger.Configure()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Fatalf("chatview: %v", err)
	}
}
