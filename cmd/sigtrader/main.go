package main

import (
	"os"

	"github.com/rustyeddy/sigtrader/cmd/sigtrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
