package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dtroode/speechpractice-server/internal/cli"
)

var buildVersion = "N/A" // set by ldflags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(buildVersion, ".env").ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
