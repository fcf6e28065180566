// Command ncgo inspects netCDF files and measures the native call gate.
package main

import (
	"os"
)

func main() {
	if err := newRoot(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
