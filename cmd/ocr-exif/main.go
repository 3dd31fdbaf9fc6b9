package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	root := newRootCommand()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(Version),
		fang.WithCommit(GitCommit),
	); err != nil {
		os.Exit(1)
	}
}
