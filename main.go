package main

import (
	"os"

	"github.com/temirov/fastrepo/cmd/cli"
)

// main executes the fastrepo command-line application.
func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
