package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
	"github.com/brettfeltmate/ABColour-NoSwitch/session"
)

type FrameLogEntry struct {
	Block      int
	Trial      int
	Index      int
	Symbol     string
	Role       string
	IntendedMS int64
	ActualMS   int64
	ShownMS    int64
}

// FrameLog keeps intended and actual onset times of every stream item so
// display timing can be checked after the session.
type FrameLog struct {
	ItemDuration time.Duration
	Entries      []FrameLogEntry
}

// Add logs a presented stream. Intended onsets are spaced ItemDuration
// apart from the first item's actual onset.
func (l *FrameLog) Add(b session.Block, trial int, onsets []rsvp.Onset) {
	if len(onsets) == 0 {
		return
	}
	first := onsets[0].At
	for _, o := range onsets {
		intended := first + time.Duration(o.Index)*l.ItemDuration
		l.Entries = append(l.Entries, FrameLogEntry{
			Block:      b.Number,
			Trial:      trial,
			Index:      o.Index,
			Symbol:     o.Symbol,
			Role:       o.Role.String(),
			IntendedMS: intended.Milliseconds(),
			ActualMS:   o.At.Milliseconds(),
			ShownMS:    o.Shown.Milliseconds(),
		})
	}
}

// Late counts items whose onset missed the intended time by more than tol.
func (l *FrameLog) Late(tol time.Duration) int {
	n := 0
	for _, e := range l.Entries {
		if time.Duration(e.ActualMS-e.IntendedMS)*time.Millisecond > tol {
			n++
		}
	}
	return n
}

func (l *FrameLog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"block", "trial", "index", "symbol", "role", "intended_ms", "actual_ms", "shown_ms"})
	for _, e := range l.Entries {
		w.Write([]string{
			strconv.Itoa(e.Block),
			strconv.Itoa(e.Trial),
			strconv.Itoa(e.Index),
			e.Symbol,
			e.Role,
			strconv.FormatInt(e.IntendedMS, 10),
			strconv.FormatInt(e.ActualMS, 10),
			strconv.FormatInt(e.ShownMS, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write frame log: %w", err)
	}
	return nil
}
