package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/brettfeltmate/ABColour-NoSwitch/datastore"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd(sub ...*cobra.Command) *cobra.Command {
	rootCmd := &cobra.Command{Use: "abcolour", SilenceUsage: true}
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level")
	rootCmd.AddCommand(sub...)
	return rootCmd
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newTestRootCmd(newVersionCmd())
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("output %q missing version", out.String())
	}
}

func TestLoadRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	yaml := "participant: from-file\nexperiment:\n  blocks: 6\n  trials_per_block: 8\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd()
	for name, val := range map[string]string{
		"config":      path,
		"participant": "p42",
		"trials":      "24",
		"no-practice": "true",
		"timeout":     "5s",
		"bg-color":    "1,2,3,255",
	} {
		if err := cmd.Flags().Set(name, val); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		t.Fatalf("loadRunConfig: %v", err)
	}
	if cfg.Participant != "p42" {
		t.Errorf("participant = %q, flag should win", cfg.Participant)
	}
	exp := cfg.Experiment
	if exp.Blocks != 6 {
		t.Errorf("blocks = %d, want 6 from file", exp.Blocks)
	}
	if exp.TrialsPerBlock != 24 {
		t.Errorf("trials = %d, want 24 from flag", exp.TrialsPerBlock)
	}
	if exp.Practice {
		t.Error("practice should be disabled")
	}
	if exp.ResponseTimeout != 5*time.Second {
		t.Errorf("timeout = %v", exp.ResponseTimeout)
	}
	if cfg.BGColor.R != 1 || cfg.BGColor.B != 3 {
		t.Errorf("bg = %v", cfg.BGColor)
	}
	if !cfg.VSync {
		t.Error("vsync should keep its default")
	}
}

func TestLoadRunConfig_RequiresParticipant(t *testing.T) {
	if _, err := loadRunConfig(newRunCmd()); err == nil {
		t.Error("expected error without participant")
	}
}

func seedStore(t *testing.T, path string) string {
	t.Helper()
	ctx := context.Background()
	s, err := datastore.NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	id, err := s.BeginSession(ctx, "p01")
	if err != nil {
		t.Fatal(err)
	}
	for trial := 1; trial <= 3; trial++ {
		rec := datastore.Record{
			Participant: "p01", BlockNum: 1, TrialNum: trial, BlockType: "colour",
			T1Time: 5, T2Time: 7, Lag: 2, T1Identity: "2", T2Identity: "9",
			T1IdentityResponse: datastore.NA, T1IdentityRT: datastore.NA,
			T2IdentityResponse: datastore.NA, T2IdentityRT: datastore.NA,
			T1AngErr: "-12.50", T1AngErrRT: "900", T2AngErr: "3.00", T2AngErrRT: "700",
		}
		if err := s.Write(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.EndSession(ctx, false); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestExportCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "abcolour.db")
	id := seedStore(t, dbPath)

	var out bytes.Buffer
	root := newTestRootCmd(newExportCmd())
	root.SetOut(&out)
	root.SetArgs([]string{"export", "--db", dbPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], id) {
		t.Errorf("row does not start with session id %s: %s", id, lines[1])
	}
	if !strings.Contains(lines[1], "-12.50") {
		t.Errorf("angular error missing: %s", lines[1])
	}
}

func TestExportCmd_MissingDB(t *testing.T) {
	root := newTestRootCmd(newExportCmd())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"export", "--db", filepath.Join(t.TempDir(), "nope.db")})
	if err := root.Execute(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestSessionsCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "abcolour.db")
	id := seedStore(t, dbPath)

	var out bytes.Buffer
	root := newTestRootCmd(newSessionsCmd())
	root.SetOut(&out)
	root.SetArgs([]string{"sessions", "--db", dbPath})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "complete") {
		t.Errorf("sessions output:\n%s", out.String())
	}
}

func TestLoadRunConfig_BadColour(t *testing.T) {
	cmd := newRunCmd()
	cmd.Flags().Set("participant", "p01")
	cmd.Flags().Set("text-color", "255,0")
	if _, err := loadRunConfig(cmd); err == nil || !strings.Contains(err.Error(), "--text-color") {
		t.Errorf("err = %v, want a --text-color error", err)
	}
}
