package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"
	"github.com/brettfeltmate/ABColour-NoSwitch/datastore"
	"github.com/brettfeltmate/ABColour-NoSwitch/response"
	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

const (
	// NoResponse and TimeoutRT are recorded when a prompt times out.
	NoResponse = "NO_RESPONSE"
	TimeoutRT  = "-1"
)

const (
	anyKeyTxt        = "%s\nPress any key to continue."
	t1IDRequest      = "What number was the first target you saw?"
	t2IDRequest      = "What number was the second target you saw?"
	identityInstruct = "In this block, you will be asked to report which two numbers were presented."
	colourInstruct   = "In this block, you will be asked to report which two colours were presented."
	breakTxt         = "Good work! Take a break"
	allDoneTxt       = "Whew! You're all done!\nPlease buzz the researcher to let them know."
)

// Host is everything the experiment needs from the display and input
// backend.
type Host interface {
	rsvp.Display
	rsvp.Clock
	response.EventSource

	Message(text string)
	Fixation()
	Wheel(w *colorwheel.Wheel, cursorX, cursorY float32)
	WheelRing() colorwheel.Ring
	HideCursor()
}

// OnsetFunc receives the onsets of every presented stream.
type OnsetFunc func(b Block, trial int, onsets []rsvp.Onset)

type Experiment struct {
	cfg    Config
	host   Host
	sink   datastore.Sink
	marker rsvp.Marker
	log    *slog.Logger

	// OnStream, when set, is called after each stream is presented.
	OnStream OnsetFunc

	SessionID string

	rng    *rand.Rand
	wheel1 *colorwheel.Wheel
	wheel2 *colorwheel.Wheel
}

func New(cfg Config, host Host, sink datastore.Sink, marker rsvp.Marker, log *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Experiment{
		cfg:    cfg,
		host:   host,
		sink:   sink,
		marker: marker,
		log:    log,
		rng:    rand.New(rand.NewSource(seed)),
		wheel1: colorwheel.New(),
		wheel2: colorwheel.New(),
	}, nil
}

// Run plays every block. It returns rsvp.ErrAborted if the participant
// quits; records written before that are kept.
func (e *Experiment) Run(ctx context.Context) error {
	blocks := Plan(e.cfg, e.rng)
	e.log.Info("session starting", "participant", e.cfg.Participant, "blocks", len(blocks))

	for _, b := range blocks {
		if err := e.blockIntro(b, len(blocks)); err != nil {
			return err
		}
		for i, lag := range b.Lags {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := e.runTrial(b, i+1, lag)
			if err != nil {
				return fmt.Errorf("block %d trial %d: %w", b.Number, i+1, err)
			}
			if err := e.sink.Write(ctx, rec); err != nil {
				return fmt.Errorf("write trial: %w", err)
			}
			e.log.Debug("trial complete", "block", b.Number, "trial", i+1, "type", b.Type, "lag", lag)
		}
		if !b.Practice {
			if err := e.anyKey(breakTxt); err != nil {
				return err
			}
		}
	}

	e.log.Info("session complete", "participant", e.cfg.Participant)
	return e.showUntilKey(allDoneTxt)
}

func (e *Experiment) blockIntro(b Block, total int) error {
	progress := fmt.Sprintf(anyKeyTxt, fmt.Sprintf("Block %d of %d", b.Number, total))
	if b.Practice {
		progress += "\n(This is a practice block)"
	}
	if err := e.showUntilKey(progress); err != nil {
		return err
	}
	instruct := identityInstruct
	if b.Type == rsvp.Colour {
		instruct = colourInstruct
	}
	return e.anyKey(instruct)
}

func (e *Experiment) anyKey(text string) error {
	return e.showUntilKey(fmt.Sprintf(anyKeyTxt, text))
}

func (e *Experiment) showUntilKey(text string) error {
	return response.WaitAnyKey(e.host, e.host, func() { e.host.Message(text) })
}

func (e *Experiment) runTrial(b Block, trial, lag int) (datastore.Record, error) {
	tp, err := rsvp.NewTrial(e.rng, lag, e.wheel1, e.wheel2)
	if err != nil {
		return datastore.Record{}, err
	}
	stream, err := rsvp.BuildTrial(b.Type, tp, e.rng)
	if err != nil {
		return datastore.Record{}, err
	}

	e.host.HideCursor()
	e.host.Fixation()
	if err := response.Wait(e.host, e.host, e.cfg.StreamDelay); err != nil {
		return datastore.Record{}, err
	}

	p := &rsvp.Presenter{
		Display:      e.host,
		Input:        response.QuitPoller{Source: e.host},
		Clock:        e.host,
		Marker:       e.marker,
		ItemDuration: e.cfg.ItemDuration,
	}
	onsets, err := p.Present(stream)
	if e.OnStream != nil {
		e.OnStream(b, trial, onsets)
	}
	if err != nil {
		return datastore.Record{}, err
	}

	rec := datastore.Record{
		SessionID:       e.SessionID,
		Participant:     e.cfg.Participant,
		Practice:        b.Practice,
		BlockNum:        b.Number,
		TrialNum:        trial,
		BlockType:       b.Type.String(),
		T1Time:          tp.T1Position,
		T2Time:          tp.T2Position,
		Lag:             tp.Lag,
		T1Identity:      tp.T1Identity,
		T2Identity:      tp.T2Identity,
		T1Colour:        datastore.FormatColour(tp.T1Colour),
		T2Colour:        datastore.FormatColour(tp.T2Colour),
		T1WheelRotation: tp.T1Rotation,
		T2WheelRotation: tp.T2Rotation,
	}

	if b.Type == rsvp.Identity {
		r1, err := e.collectIdentity(t1IDRequest)
		if err != nil {
			return datastore.Record{}, err
		}
		r2, err := e.collectIdentity(t2IDRequest)
		if err != nil {
			return datastore.Record{}, err
		}
		rec.T1IdentityResponse, rec.T1IdentityRT = keyFields(r1)
		rec.T2IdentityResponse, rec.T2IdentityRT = keyFields(r2)
		rec.T1AngErr, rec.T1AngErrRT = datastore.NA, datastore.NA
		rec.T2AngErr, rec.T2AngErrRT = datastore.NA, datastore.NA
		return rec, nil
	}

	r1, err := e.collectColour(e.wheel1, tp.T1Angle)
	if err != nil {
		return datastore.Record{}, err
	}
	r2, err := e.collectColour(e.wheel2, tp.T2Angle)
	if err != nil {
		return datastore.Record{}, err
	}
	rec.T1AngErr, rec.T1AngErrRT = angleFields(r1)
	rec.T2AngErr, rec.T2AngErrRT = angleFields(r2)
	rec.T1IdentityResponse, rec.T1IdentityRT = datastore.NA, datastore.NA
	rec.T2IdentityResponse, rec.T2IdentityRT = datastore.NA, datastore.NA
	return rec, nil
}

func (e *Experiment) collectIdentity(prompt string) (response.Response, error) {
	draw := func() { e.host.Message(prompt) }
	return response.Collect(e.host, e.host, draw, response.DigitKeys(), e.cfg.ResponseTimeout)
}

func (e *Experiment) collectColour(w *colorwheel.Wheel, targetAngle int) (response.Response, error) {
	l := response.NewWheelListener(e.host.WheelRing(), targetAngle)
	draw := func() {
		e.host.HideCursor()
		x, y := l.Cursor()
		e.host.Wheel(w, x, y)
	}
	return response.Collect(e.host, e.host, draw, l, e.cfg.ResponseTimeout)
}

func keyFields(r response.Response) (string, string) {
	if r.TimedOut {
		return NoResponse, TimeoutRT
	}
	return r.Key, millis(r.RT)
}

func angleFields(r response.Response) (string, string) {
	if r.TimedOut {
		return NoResponse, TimeoutRT
	}
	return strconv.FormatFloat(float64(r.AngleError), 'f', 2, 32), millis(r.RT)
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
