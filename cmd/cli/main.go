package main

import (
	"os"

	"github.com/ronittamrakar/Xordon-sub011/cmd/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
