package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		printError(os.Stderr, "%v", err)
		return 1
	}
	return 0
}
