package main

import (
	"os"

	"github.com/depot-tools/depotc/cmd/depotc/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
