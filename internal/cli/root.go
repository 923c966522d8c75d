// Package cli implements nxfd's cobra command surface: a root command
// with global flags plus server/replay/version subcommands, mirroring the
// teacher's rippled-derived command structure (internal/cli in the
// teacher repo).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debug      bool
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "nxfd",
	Short: "nxfd - federated ledger node",
	Long: `nxfd is a federated Byzantine-fault-tolerant ledger node: an IOU-capable
account ledger, RPCA-style consensus among a configured UNL, a staking
subsystem with dynamic APY, and a peer gossip/sync protocol.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging regardless of config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress startup banner")
}
