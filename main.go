// The main package for the sitetext executable.
package main

import (
	"github.com/jmartel/sitetext/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
