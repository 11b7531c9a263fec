package main

import (
	"os"

	"github.com/jonnii/gg/internal/cli"
)

// version, commit, and date are set via -ldflags at release build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(version, commit, date))
}
