package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rustyeddy/tradejournal/cmd/tradejournal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
