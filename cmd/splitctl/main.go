// Command splitctl drives a SplitShare server from the terminal: extract an
// order from a saved page, split it between people and export the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitshare/internal/client"
	"github.com/mmynk/splitshare/pkg/logging"
)

type rootOptions struct {
	server   string
	logLevel string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "splitctl",
		Short:         "Split shopping orders between people",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.SetupWithLevel(logging.ParseLevel(opts.logLevel))
		},
	}

	server := os.Getenv("SPLITSHARE_SERVER")
	if server == "" {
		server = client.DefaultServerURL
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", server, "SplitShare server URL (env SPLITSHARE_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newExtractCommand(opts))
	cmd.AddCommand(newLedgerCommand(opts))
	cmd.AddCommand(newTestSheetCommand(opts))
	return cmd
}
