package main

import (
	"os"

	"tweakdeck/cmd/tweakdeck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
