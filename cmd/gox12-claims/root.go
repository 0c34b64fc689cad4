package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/engine"
	"github.com/gox12/claims/loop"
)

var (
	cfgFile     string
	profilePath string
	verbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gox12-claims",
	Short: "X12 837P healthcare claim parser",
	Long: `gox12-claims parses X12 837P professional healthcare claim files.

It extracts claims and their service lines into JSON, produces a flat
segment-by-segment projection for debugging, checks envelope consistency,
and can load extracted claims into a SQLite database for querying.

Structural failures (a malformed ISA envelope, no segment terminator)
make a file unparseable; everything else is reported as findings while
extraction proceeds.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gox12-claims v%s\n", x12.Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.gox12/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "YAML trigger profile (default: built-in 837P)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("strict", false, "report missing claim fields as findings")
	rootCmd.PersistentFlags().Bool("audit-charges", false, "check claim totals against service-line sums")
	rootCmd.PersistentFlags().Int("workers", 0, "batch worker count (default: number of CPUs)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("audit_charges", rootCmd.PersistentFlags().Lookup("audit-charges"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(claimsCmd)
	rootCmd.AddCommand(flatCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loadCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.gox12")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match GOX12_*
	viper.SetEnvPrefix("GOX12")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newParser builds a parser from the resolved configuration.
func newParser() (*engine.Parser, error) {
	profile := loop.Default837P()
	if profilePath != "" {
		var err error
		profile, err = loop.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
	}

	opts := []x12.Option{
		x12.WithStrictMode(viper.GetBool("strict")),
		x12.WithChargeAudit(viper.GetBool("audit_charges")),
	}
	if workers := viper.GetInt("workers"); workers > 0 {
		opts = append(opts, x12.WithWorkerCount(workers))
	}

	return engine.NewWithProfile(profile, opts...)
}

// readInput reads a file argument, treating "-" as stdin.
func readInput(path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, "stdin", err
	}
	data, err := os.ReadFile(path)
	return data, path, err
}

// writeOutput writes rendered JSON to the output path, or stdout when the
// path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	return nil
}
