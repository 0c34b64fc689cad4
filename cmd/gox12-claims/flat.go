package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var flatOutput string

// flatCmd converts one 837P file to the flat segment JSON used for
// diffing and ad hoc inspection.
var flatCmd = &cobra.Command{
	Use:   "flat <file>",
	Short: "Dump every segment of an X12 file as JSON",
	Long: `Parse an X12 file and emit every segment with its elements:

  {
    "file": "claims.837",
    "segments": [
      {"segment_id": "ISA", "elements": ["00", "          ", ...]},
      ...
    ]
  }

Unlike "claims", no loop interpretation happens; envelope and claim
segments appear alike, in file order. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := newParser()
		if err != nil {
			return err
		}

		data, name, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		flat, err := parser.Flatten(data, name)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}

		text, err := json.MarshalIndent(flat, "", "  ")
		if err != nil {
			return fmt.Errorf("rendering segments: %w", err)
		}
		return writeOutput(flatOutput, text)
	},
}

func init() {
	flatCmd.Flags().StringVarP(&flatOutput, "output", "o", "", "JSON output file (default: stdout)")
}
