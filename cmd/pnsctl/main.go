// Command pnsctl is the operator tool: it mints development tokens and
// prices names offline.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
