package main

import (
	"os"

	"github.com/vocabulous/vocabulous/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
