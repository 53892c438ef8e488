// Package main is the remedyctl admin tool. It migrates and seeds the
// database, manages user roles and runs offline interaction checks.
package main

import (
	"fmt"
	"os"

	"github.com/pscheid92/remedyhub/cmd/remedyctl/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
