package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gox12/claims/store"
	"github.com/gox12/claims/worker"
)

var loadDBPath string

// loadCmd parses files concurrently and persists the extracted claims
// to the SQLite store. Reloading a file replaces its previous rows.
var loadCmd = &cobra.Command{
	Use:   "load <file> [file...]",
	Short: "Parse 837P files and load claims into the SQLite store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := newParser()
		if err != nil {
			return err
		}

		type input struct {
			name string
			data []byte
		}
		inputs := make([]input, 0, len(args))
		for _, arg := range args {
			data, name, err := readInput(arg)
			if err != nil {
				return fmt.Errorf("reading %s: %w", arg, err)
			}
			inputs = append(inputs, input{name: name, data: data})
		}

		db, err := store.New(loadDBPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()

		// The pool's channels are bounded, so results must be drained
		// while submissions are still in flight or a large batch fills
		// both channels and Submit blocks forever.
		pool := worker.NewPool(parser, viper.GetInt("workers"))
		results := make([]*worker.JobResult, 0, len(inputs))
		collected := make(chan struct{})
		go func() {
			defer close(collected)
			for range inputs {
				results = append(results, <-pool.Results())
			}
		}()

		for _, in := range inputs {
			pool.Submit(worker.Job{Source: in.name, Data: in.data})
		}
		<-collected
		pool.Close()

		// Pool results arrive in completion order; sort by source so the
		// summary is stable across runs.
		sort.Slice(results, func(i, j int) bool {
			return results[i].Source < results[j].Source
		})

		ctx := context.Background()
		loaded := 0
		failed := 0
		for _, jr := range results {
			if jr.Error != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: skipped (%v)\n", jr.Source, jr.Error)
				continue
			}
			n, err := db.InsertClaims(ctx, jr.Source, jr.Result.Claims)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: insert failed (%v)\n", jr.Source, err)
				continue
			}
			loaded += n
			fmt.Printf("%s: %d claim(s) loaded\n", jr.Source, n)
		}

		total, err := db.ClaimCount(ctx)
		if err != nil {
			return fmt.Errorf("counting claims: %w", err)
		}
		fmt.Printf("\nloaded %d claim(s) from %d file(s) into %s (%d total)\n",
			loaded, len(inputs)-failed, db.Path(), total)

		if failed > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadDBPath, "db", "", "SQLite database path (default: ~/.gox12/claims.db)")
}
