package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Stumpwiz/lmacfy/internal/cmd"
	"github.com/Stumpwiz/lmacfy/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		ui.Failf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
