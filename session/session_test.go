package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"
	"github.com/brettfeltmate/ABColour-NoSwitch/datastore"
	"github.com/brettfeltmate/ABColour-NoSwitch/response"
	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

// fakeHost answers every prompt on the tick after it is first drawn.
type fakeHost struct {
	now     time.Duration
	quitAt  time.Duration
	pending []response.Event
	ring    colorwheel.Ring

	drawn     []rsvp.Item
	messages  []string
	wheels    int
	fixations int
}

func newFakeHost() *fakeHost {
	return &fakeHost{ring: colorwheel.NewRing(500, 500, 400)}
}

func (h *fakeHost) Now() time.Duration { return h.now }
func (h *fakeHost) Tick()              { h.now += time.Millisecond }

func (h *fakeHost) Poll() (response.Event, bool) {
	if h.quitAt > 0 && h.now >= h.quitAt {
		h.quitAt = 0
		return response.Event{Kind: response.Quit}, true
	}
	if len(h.pending) == 0 {
		return response.Event{}, false
	}
	ev := h.pending[0]
	h.pending = h.pending[1:]
	return ev, true
}

func (h *fakeHost) queue(ev response.Event) {
	if len(h.pending) == 0 {
		h.pending = append(h.pending, ev)
	}
}

func (h *fakeHost) Clear()               {}
func (h *fakeHost) DrawItem(i rsvp.Item) { h.drawn = append(h.drawn, i) }
func (h *fakeHost) Present()             {}
func (h *fakeHost) Fixation()            { h.fixations++ }
func (h *fakeHost) HideCursor()          {}

func (h *fakeHost) WheelRing() colorwheel.Ring { return h.ring }

func (h *fakeHost) Message(text string) {
	if len(h.messages) == 0 || h.messages[len(h.messages)-1] != text {
		h.messages = append(h.messages, text)
	}
	switch text {
	case t1IDRequest:
		h.queue(response.Event{Kind: response.KeyDown, Key: "3"})
	case t2IDRequest:
		h.queue(response.Event{Kind: response.KeyDown, Key: "8"})
	default:
		h.queue(response.Event{Kind: response.KeyDown, Key: "Space"})
	}
}

func (h *fakeHost) Wheel(w *colorwheel.Wheel, x, y float32) {
	h.wheels++
	px, py := h.ring.Point(0, (h.ring.Inner+h.ring.Outer)/2)
	h.queue(response.Event{Kind: response.MouseDown, X: px, Y: py})
}

type memSink struct {
	records []datastore.Record
}

func (m *memSink) Write(_ context.Context, r datastore.Record) error {
	m.records = append(m.records, r)
	return nil
}
func (m *memSink) Close() error { return nil }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Participant = "p01"
	cfg.Blocks = 2
	cfg.TrialsPerBlock = 3
	cfg.PracticeTrials = 2
	cfg.Seed = 11
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExperiment_Run(t *testing.T) {
	host := newFakeHost()
	sink := &memSink{}
	exp, err := New(testConfig(), host, sink, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	exp.SessionID = "S1"
	streams := 0
	exp.OnStream = func(b Block, trial int, onsets []rsvp.Onset) {
		streams++
		for _, o := range onsets {
			if o.Shown < rsvp.DefaultItemDuration {
				t.Errorf("block %d trial %d item %d shown %v", b.Number, trial, o.Index, o.Shown)
			}
		}
	}

	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sink.records) != 10 {
		t.Fatalf("got %d records, want 10", len(sink.records))
	}
	if streams != 10 || host.fixations != 10 {
		t.Errorf("streams=%d fixations=%d, want 10", streams, host.fixations)
	}

	for _, r := range sink.records {
		if r.SessionID != "S1" || r.Participant != "p01" {
			t.Errorf("ids not propagated: %+v", r)
		}
		if r.T2Time != r.T1Time+r.Lag {
			t.Errorf("t2_time %d != t1_time %d + lag %d", r.T2Time, r.T1Time, r.Lag)
		}
		if r.T1Identity == r.T2Identity || r.T1Colour == r.T2Colour {
			t.Errorf("targets not distinct: %+v", r)
		}
		switch r.BlockType {
		case "identity":
			if r.T1IdentityResponse != "3" || r.T2IdentityResponse != "8" {
				t.Errorf("identity responses = %q,%q", r.T1IdentityResponse, r.T2IdentityResponse)
			}
			if _, err := strconv.Atoi(r.T1IdentityRT); err != nil {
				t.Errorf("t1 rt %q not numeric", r.T1IdentityRT)
			}
			if r.T1AngErr != datastore.NA || r.T2AngErrRT != datastore.NA {
				t.Errorf("colour fields should be NA in identity block: %+v", r)
			}
		case "colour":
			if r.T1IdentityResponse != datastore.NA || r.T2IdentityRT != datastore.NA {
				t.Errorf("identity fields should be NA in colour block: %+v", r)
			}
			if _, err := strconv.ParseFloat(r.T1AngErr, 32); err != nil {
				t.Errorf("t1 angular error %q not numeric", r.T1AngErr)
			}
		default:
			t.Errorf("unknown block type %q", r.BlockType)
		}
	}

	wantTypes := []string{"identity", "colour", "identity", "colour"}
	wantPractice := []bool{true, true, false, false}
	seen := map[int]bool{}
	for _, r := range sink.records {
		i := r.BlockNum - 1
		if r.BlockType != wantTypes[i] || r.Practice != wantPractice[i] {
			t.Errorf("block %d: type %q practice %v", r.BlockNum, r.BlockType, r.Practice)
		}
		seen[r.BlockNum] = true
	}
	if len(seen) != 4 {
		t.Errorf("saw blocks %v, want 4", seen)
	}

	if host.wheels == 0 {
		t.Error("colour wheel never drawn")
	}
	if last := host.messages[len(host.messages)-1]; last != allDoneTxt {
		t.Errorf("last screen = %q, want all-done message", last)
	}
	var practiceNotes int
	for _, m := range host.messages {
		if strings.Contains(m, "practice block") {
			practiceNotes++
		}
	}
	if practiceNotes != 2 {
		t.Errorf("practice note shown %d times, want 2", practiceNotes)
	}
}

func TestExperiment_Timeouts(t *testing.T) {
	host := &silentHost{fakeHost: newFakeHost()}
	sink := &memSink{}
	cfg := testConfig()
	cfg.Practice = false
	cfg.Blocks = 2
	cfg.TrialsPerBlock = 1
	cfg.ResponseTimeout = 50 * time.Millisecond

	exp, err := New(cfg, host, sink, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(sink.records) != 2 {
		t.Fatalf("got %d records, want 2", len(sink.records))
	}
	id, col := sink.records[0], sink.records[1]
	if id.T1IdentityResponse != NoResponse || id.T1IdentityRT != TimeoutRT {
		t.Errorf("identity timeout recorded as %q/%q", id.T1IdentityResponse, id.T1IdentityRT)
	}
	if col.T2AngErr != NoResponse || col.T2AngErrRT != TimeoutRT {
		t.Errorf("colour timeout recorded as %q/%q", col.T2AngErr, col.T2AngErrRT)
	}
}

// silentHost never answers prompts but still dismisses instruction screens.
type silentHost struct {
	*fakeHost
}

func (h *silentHost) Message(text string) {
	if strings.Contains(text, "Press any key") || text == allDoneTxt {
		h.fakeHost.Message(text)
	}
}

func (h *silentHost) Wheel(*colorwheel.Wheel, float32, float32) {}

func TestExperiment_QuitDuringStream(t *testing.T) {
	host := newFakeHost()
	sink := &memSink{}
	cfg := testConfig()
	cfg.Practice = false

	exp, err := New(cfg, host, sink, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	var streams int
	exp.OnStream = func(b Block, trial int, onsets []rsvp.Onset) {
		streams++
		if streams == 2 {
			// Quit arrives while the next stream is running.
			host.quitAt = host.now + 1500*time.Millisecond
		}
	}

	err = exp.Run(context.Background())
	if !errors.Is(err, rsvp.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if len(sink.records) != 2 {
		t.Errorf("kept %d records, want 2", len(sink.records))
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Lags = []int{0}
	if _, err := New(cfg, newFakeHost(), &memSink{}, nil, nil); err == nil {
		t.Error("expected validation error")
	}
}

func TestPlan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := testConfig()
	cfg.TrialsPerBlock = 20

	blocks := Plan(cfg, rng)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	for i, b := range blocks {
		if b.Number != i+1 {
			t.Errorf("block %d numbered %d", i, b.Number)
		}
		want := rsvp.Identity
		if i%2 == 1 {
			want = rsvp.Colour
		}
		if b.Type != want {
			t.Errorf("block %d type %v, want %v", b.Number, b.Type, want)
		}
	}
	if !blocks[0].Practice || !blocks[1].Practice || blocks[2].Practice {
		t.Error("practice flags wrong")
	}
	if len(blocks[0].Lags) != 2 || len(blocks[2].Lags) != 20 {
		t.Errorf("trial counts %d/%d, want 2/20", len(blocks[0].Lags), len(blocks[2].Lags))
	}

	cfg.Practice = false
	if got := len(Plan(cfg, rng)); got != 2 {
		t.Errorf("without practice got %d blocks, want 2", got)
	}
}

func TestBalancedLags(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	lags := []int{1, 2, 3, 4, 5, 6, 7, 8}
	got := balancedLags(lags, 64, rng)
	if len(got) != 64 {
		t.Fatalf("len = %d, want 64", len(got))
	}
	counts := map[int]int{}
	for _, l := range got {
		counts[l]++
	}
	for _, l := range lags {
		if counts[l] != 8 {
			t.Errorf("lag %d appears %d times, want 8", l, counts[l])
		}
	}
	if got := balancedLags(lags, 3, rng); len(got) != 3 {
		t.Errorf("partial cycle len = %d, want 3", len(got))
	}
	if got := balancedLags(nil, 3, rng); got != nil {
		t.Errorf("empty lag set = %v, want nil", got)
	}
}
