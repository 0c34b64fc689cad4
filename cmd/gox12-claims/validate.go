package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/worker"
)

// validateCmd checks one or more files and reports findings without
// emitting claim JSON. It exits nonzero when any file carries error or
// fatal findings, so it can gate a batch before loading.
var validateCmd = &cobra.Command{
	Use:   "validate <file> [file...]",
	Short: "Validate 837P files and report findings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := newParser()
		if err != nil {
			return err
		}

		inputs := make([][]byte, 0, len(args))
		names := make([]string, 0, len(args))
		for _, arg := range args {
			data, name, err := readInput(arg)
			if err != nil {
				return fmt.Errorf("reading %s: %w", arg, err)
			}
			inputs = append(inputs, data)
			names = append(names, name)
		}

		bp := worker.NewBatchParser(parser.Parse, viper.GetInt("workers"))
		batch := bp.ParseBatch(context.Background(), inputs)

		verbose := viper.GetBool("verbose")
		failed := false
		for i, jr := range batch.Results {
			name := names[i]
			if jr.Error != nil {
				failed = true
				fmt.Printf("%s: UNPARSEABLE (%v)\n", name, jr.Error)
				continue
			}
			printFileReport(name, jr.Result, verbose)
			if jr.Result.HasErrors() {
				failed = true
			}
		}

		fmt.Printf("\n%d file(s), %d claim(s), %d failed\n",
			batch.TotalJobs, batch.ClaimCount(), batch.FailedJobs)

		if failed {
			os.Exit(1)
		}
		return nil
	},
}

// printFileReport writes a one-line verdict plus the findings for a file.
func printFileReport(name string, result *x12.Result, verbose bool) {
	verdict := "VALID"
	if result.HasErrors() {
		verdict = "INVALID"
	}
	fmt.Printf("%s: %s (%d claim(s), %d error(s), %d warning(s))\n",
		name, verdict, len(result.Claims), result.ErrorCount(), result.WarningCount())

	for _, finding := range result.Findings {
		if !verbose && !finding.IsError() {
			continue
		}
		fmt.Printf("  %s\n", finding)
	}
}
