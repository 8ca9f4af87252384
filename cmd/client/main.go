// Package main is the VitalsKeeper dashboard command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinyakov/VitalsKeeper/internal/client/cli"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(version)
	if buildDate != "" {
		root.SetVersionTemplate("VitalsKeeper dashboard {{.Version}} (built " + buildDate + ")\n")
	}
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
