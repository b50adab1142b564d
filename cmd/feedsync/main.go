// Package main is the entry point for the feedsync CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/autolife/feedsync/cmd/feedsync/cmd"
)

// Version information populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cmd.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cmd.Execute(ctx, info); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
