package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bidopoold",
	Short: "bidopoold - liquid staking pool daemon",
	Long: `bidopoold runs a liquid staking pool: holders deposit value, receive
shares of the pool, and later redeem them for a proportional amount of the
pooled value, including rewards injected without new shares.

The daemon serves the pool ledger over HTTP and persists its state in a
local bbolt database. Configuration comes from BIDOPOOL_* environment
variables.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
