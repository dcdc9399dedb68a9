package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/statewalk/evlog/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return app.Execute(ctx, os.Args[1:], app.Options{})
}
