// Command oasrepo bundles and syncs OpenAPI source trees.
package main

import (
	"os"

	"github.com/erraggy/oasrepo/cmd/oasrepo/commands"
)

func main() {
	os.Exit(commands.Execute())
}
