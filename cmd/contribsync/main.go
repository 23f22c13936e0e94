// Command contribsync keeps the contributors field of a package.json in sync
// with the people who contributed to its GitHub repository.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimgiray/contribsync/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
