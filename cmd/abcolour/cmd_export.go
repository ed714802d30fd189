package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/brettfeltmate/ABColour-NoSwitch/datastore"
)

func openStore(cmd *cobra.Command) (*datastore.SQLiteStore, error) {
	path, _ := cmd.Flags().GetString("db")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return datastore.NewSQLiteStore(path)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a session's trials as CSV",
		Long:  "Export writes the trials of one session (the latest when --session is not given) as CSV.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, _ := cmd.Flags().GetString("session")
			if id == "" {
				sessions, err := s.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					return errors.New("database has no sessions")
				}
				id = sessions[0].ID
			}

			records, err := s.Trials(cmd.Context(), id)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return datastore.WriteCSV(w, records)
		},
	}
	cmd.Flags().StringP("session", "s", "", "Session id")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	return cmd
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			sessions, err := s.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPARTICIPANT\tSTARTED\tSTATUS")
			for _, se := range sessions {
				status := "running"
				switch {
				case se.EndedAt != nil && se.Aborted:
					status = "aborted"
				case se.EndedAt != nil:
					status = "complete"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", se.ID, se.Participant, se.StartedAt.Local().Format(time.DateTime), status)
			}
			return tw.Flush()
		},
	}
}
