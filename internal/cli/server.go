package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexaflow/nxfd/internal/config"
	"github.com/nexaflow/nxfd/internal/logging"
	"github.com/nexaflow/nxfd/internal/node"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the nxfd node",
	Long: `Run the nxfd node: opens local storage, bootstraps or restores the
ledger, and starts the consensus, sync, p2p, and metrics loops. Blocks
until interrupted.`,
	Run: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.Run = runServer
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nxfd: %v\n", err)
		os.Exit(1)
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	log := logging.New(cfg.Logging)
	if !quiet {
		log.WithFields(map[string]interface{}{
			"node_id":     cfg.Server.NodeID,
			"listen_addr": cfg.P2P.ListenAddr,
			"unl_size":    len(cfg.Consensus.UNL),
		}).Info("starting nxfd")
	}

	n, err := node.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to construct node")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := n.Run(ctx); err != nil {
		log.WithError(err).Fatal("node exited with error")
	}
}
