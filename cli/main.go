package main

import (
	"os"

	"github.com/mailvault-systems/mailvault-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
