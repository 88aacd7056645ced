package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/usetheodev/theo-boilerplate/internal/commands"
	"github.com/usetheodev/theo-boilerplate/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.RootCmd().ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
