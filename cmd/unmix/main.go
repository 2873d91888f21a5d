// Command unmix resolves sample spectral features as a two-endmember
// linear mixture.
//
// Usage:
//
//	unmix resolve [flags]
//	unmix info --endmembers FILE
//	unmix init
//
// Examples:
//
//	unmix resolve --endmembers em.xlsx --samples results.xlsx --sheet 1
//	unmix resolve --endmembers em.csv --samples features.csv --out predicted.csv --workers 8
//	unmix info --endmembers em.xlsx
//
// Settings not given as flags come from unmix.toml and UNMIX_* environment
// variables (see "unmix init").
package main

import (
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
