package main

import (
	"os"

	"github.com/lucrohq/lucro/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
