// Command jubileum prints the shared jubilee dates of a group of people.
package main

import (
	"os"

	"github.com/tartampluch/go-jubileum/cmd/jubileum/commands"
)

func main() {
	os.Exit(commands.Execute())
}
