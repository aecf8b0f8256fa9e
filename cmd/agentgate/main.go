// Package main provides the entry point for the agentgate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/agentgate-ai/agentgate/cmd/agentgate/commands"
)

func main() {
	// A missing .env is fine; explicit env always wins.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
