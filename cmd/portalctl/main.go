// Command portalctl administers a portal installation from the shell:
// accounts, collection health, schema and config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
