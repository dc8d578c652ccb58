// Package main is the entry point for the plugintester CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/plugintester/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
