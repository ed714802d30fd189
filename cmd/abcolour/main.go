package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func init() {
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "abcolour",
		Short: "Attentional blink colour report experiment",
		Long: `abcolour runs the dual-target RSVP experiment in which participants
report either the identities or the colours of two digits embedded in a
rapid stream of letters or digits.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("db", "ExpAssets/abcolour.db", "SQLite database path")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newExportCmd(),
		newSessionsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "abcolour version %s\n", version)
			}
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
