package main

import (
	"os"

	"github.com/vulntor/evdispatch/cmd/evdispatch/commands"
)

// main runs the evdispatch CLI and exits with the code commands.ExitCode
// assigns to the returned error.
func main() {
	os.Exit(commands.Execute(commands.NewCommand()))
}
