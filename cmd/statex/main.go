package main

import (
	"errors"
	"os"

	"github.com/ledgerlift/statex/internal/commands"
	"github.com/ledgerlift/statex/internal/importer"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		if errors.Is(err, importer.ErrNoRows) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
