package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/datastore"
)

// recorder owns the session row and the trial sinks of one run. Close marks
// the session aborted unless Finish ran first.
type recorder struct {
	store     *datastore.SQLiteStore
	csv       *datastore.CSVSink
	sessionID string
	base      string
	finished  bool
}

func openRecorder(ctx context.Context, cfg *Config, now time.Time) (*recorder, error) {
	store, err := datastore.NewSQLiteStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	id, err := store.BeginSession(ctx, cfg.Participant)
	if err != nil {
		store.Close()
		return nil, err
	}
	r := &recorder{
		store:     store,
		sessionID: id,
		base:      filepath.Join(cfg.OutputDir, cfg.Participant+"_"+now.Format("20060102-150405")),
	}
	r.csv, err = datastore.NewCSVSink(r.base + ".csv")
	if err != nil {
		return nil, errors.Join(err, r.Close(ctx))
	}
	return r, nil
}

func (r *recorder) Sink() datastore.Sink {
	return datastore.Multi{r.csv, r.store}
}

// Finish stamps the session end; aborted is true when the run did not
// complete.
func (r *recorder) Finish(ctx context.Context, aborted bool) error {
	r.finished = true
	return r.store.EndSession(context.WithoutCancel(ctx), aborted)
}

func (r *recorder) Close(ctx context.Context) error {
	var errs []error
	if !r.finished {
		errs = append(errs, r.Finish(ctx, true))
	}
	if r.csv != nil {
		errs = append(errs, r.csv.Close())
	}
	errs = append(errs, r.store.Close())
	return errors.Join(errs...)
}
