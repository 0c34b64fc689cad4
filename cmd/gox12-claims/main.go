// Command gox12-claims converts X12 837P healthcare claim files to JSON,
// validates their envelopes, and loads extracted claims into SQLite.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
