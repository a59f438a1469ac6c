package main

import (
	"os"

	"github.com/wonny/aura/backend/cmd/aura/commands"
)

// main is the entry point for the AURA CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/aura [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
