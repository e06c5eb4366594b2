// Command inquiry-report prints dashboard figures for a CSV export or the
// configured spreadsheet without running the server.
//
// Usage:
//
//	inquiry-report summary --csv rows.csv --unit month --year 2025 --index 12
//	inquiry-report attorneys --config config/config.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
