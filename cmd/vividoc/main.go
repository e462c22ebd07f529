// cmd/vividoc/main.go
package main

import (
	"os"

	"github.com/vividoc-ai/vividoc/cmd/vividoc/commands"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
