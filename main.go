package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/catalog/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	rootCmd := cli.NewRootCommand(fmt.Sprintf("%s (%s)", Version, Commit))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
