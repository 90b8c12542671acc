package main

import (
	"os"

	"github.com/setpush/setpush/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
