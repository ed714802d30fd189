package response

import (
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

type anyKey struct{}

func (anyKey) Handle(ev Event) (Response, bool) {
	return Response{Key: ev.Key}, ev.Kind == KeyDown
}

// WaitAnyKey holds a screen until any key is pressed.
func WaitAnyKey(src EventSource, clock rsvp.Clock, draw func()) error {
	for {
		r, err := Collect(src, clock, draw, anyKey{}, time.Hour)
		if err != nil {
			return err
		}
		if !r.TimedOut {
			return nil
		}
	}
}

// Wait idles for d while still honouring quit requests.
func Wait(src EventSource, clock rsvp.Clock, d time.Duration) error {
	start := clock.Now()
	for clock.Now()-start < d {
		for ev, ok := src.Poll(); ok; ev, ok = src.Poll() {
			if ev.Kind == Quit {
				return rsvp.ErrAborted
			}
		}
		clock.Tick()
	}
	return nil
}

// QuitPoller adapts an EventSource to rsvp.Input, discarding anything that
// is not a quit request.
type QuitPoller struct {
	Source EventSource
}

func (q QuitPoller) QuitRequested() bool {
	return Flush(q.Source)
}
