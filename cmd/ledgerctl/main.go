// Command ledgerctl runs offline maintenance against the fees ledger snapshot store.
package main

import (
	"os"

	"github.com/noah-isme/sma-fees-ledger/cmd/ledgerctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
