package main

import (
	"os"

	"accord/cmd/accord/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
