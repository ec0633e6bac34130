// Command pricer loads a configuration file and runs a demonstration
// pricing, exiting 0 on success and non-zero with a human-readable
// diagnostic otherwise.
package main

import (
	"os"

	"github.com/meenmo/ratecore/cmd/pricer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
