package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/datastore"
)

func recorderConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Participant = "p01"
	cfg.Database = filepath.Join(dir, "abcolour.db")
	cfg.OutputDir = filepath.Join(dir, "data")
	return cfg
}

func onlySession(t *testing.T, dbPath string) datastore.Session {
	t.Helper()
	s, err := datastore.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	sessions, err := s.Sessions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	return sessions[0]
}

func TestRecorder_Finish(t *testing.T) {
	ctx := context.Background()
	cfg := recorderConfig(t)
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	rec, err := openRecorder(ctx, cfg, now)
	if err != nil {
		t.Fatalf("openRecorder: %v", err)
	}
	if err := rec.Sink().Write(ctx, datastore.Record{Participant: "p01", BlockNum: 1, TrialNum: 1}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Finish(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "p01_20260301-093000.csv")); err != nil {
		t.Errorf("csv not written: %v", err)
	}
	se := onlySession(t, cfg.Database)
	if se.EndedAt == nil || se.Aborted {
		t.Errorf("session = %+v, want ended and not aborted", se)
	}
}

func TestRecorder_CloseWithoutFinish(t *testing.T) {
	ctx := context.Background()
	cfg := recorderConfig(t)

	rec, err := openRecorder(ctx, cfg, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	// Startup failed before the session ran.
	if err := rec.Close(ctx); err != nil {
		t.Fatal(err)
	}

	se := onlySession(t, cfg.Database)
	if se.EndedAt == nil || !se.Aborted {
		t.Errorf("session = %+v, want ended and aborted", se)
	}
}

func TestRecorder_OutputDirFailure(t *testing.T) {
	ctx := context.Background()
	cfg := recorderConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.OutputDir = blocker

	if _, err := openRecorder(ctx, cfg, time.Now()); err == nil {
		t.Fatal("expected error when output dir is a file")
	}
	se := onlySession(t, cfg.Database)
	if se.EndedAt == nil || !se.Aborted {
		t.Errorf("session = %+v, want ended and aborted", se)
	}
}
