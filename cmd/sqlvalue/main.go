// Command sqlvalue converts documents into dynamic values and keeps them
// as records.
package main

import (
	"os"

	"github.com/wbrown/janus-values/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
