// Package main provides the entry point for the codecbench CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/codecbench/cmd/codecbench/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
