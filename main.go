package main

import (
	"os"

	"github.com/carson-networks/movicar-ledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
