// Command scholar ingests versioned papers into a content-addressed store
// with a relational provenance ledger.
package main

import (
	"os"

	"github.com/dgoldman0/scholar.app/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
