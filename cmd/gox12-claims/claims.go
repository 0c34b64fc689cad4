package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var claimsOutput string

// claimsCmd converts one 837P file to the structured claims JSON.
var claimsCmd = &cobra.Command{
	Use:   "claims <file>",
	Short: "Extract claims from an 837P file as JSON",
	Long: `Parse an X12 837P file and emit its claims as JSON:

  [
    {
      "claim_id": "1001",
      "total_charge": "100",
      "service_lines": [
        {"procedure_code": "HC:99213", "line_charge": "100"}
      ]
    }
  ]

Use "-" to read from stdin. Data-quality findings are printed to stderr;
they do not fail the command.`,
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

		result, err := parser.Parse(context.Background(), data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		defer result.Release()

		for _, finding := range result.Findings {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, finding)
		}

		text, err := json.MarshalIndent(result.Claims, "", "  ")
		if err != nil {
			return fmt.Errorf("rendering claims: %w", err)
		}
		return writeOutput(claimsOutput, text)
	},
}

func init() {
	claimsCmd.Flags().StringVarP(&claimsOutput, "output", "o", "", "JSON output file (default: stdout)")
}
