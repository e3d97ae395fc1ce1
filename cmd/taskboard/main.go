package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/taskboard/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := cli.NewDispatcher(nil, nil, version)
	return d.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
