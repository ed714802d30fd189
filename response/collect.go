// Package response collects participant responses from polled input events.
//
// A collection redraws the screen every tick through a caller-supplied draw
// function, feeds each pending event to a Listener and stops at the first
// accepted response or when the timeout expires.
package response

import (
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

// DefaultTimeout is how long a prompt waits before giving up.
const DefaultTimeout = 10 * time.Second

type EventKind int

const (
	KeyDown EventKind = iota
	MouseDown
	MouseMove
	Quit
)

// Event is a host input event reduced to what listeners need.
type Event struct {
	Kind EventKind
	Key  string
	X, Y float32
}

// EventSource yields pending events without blocking.
type EventSource interface {
	Poll() (Event, bool)
}

type Response struct {
	Key        string
	AngleError float32
	RT         time.Duration
	TimedOut   bool
}

// Listener turns events into a response. ok is false while the event does
// not complete a response.
type Listener interface {
	Handle(Event) (r Response, ok bool)
}

// Collect runs one response window. Input already pending when the window
// opens is discarded. Quit events abort with rsvp.ErrAborted; a timeout is
// not an error.
func Collect(src EventSource, clock rsvp.Clock, draw func(), l Listener, timeout time.Duration) (Response, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if Flush(src) {
		return Response{}, rsvp.ErrAborted
	}
	start := clock.Now()
	for {
		if draw != nil {
			draw()
		}
		for ev, ok := src.Poll(); ok; ev, ok = src.Poll() {
			if ev.Kind == Quit {
				return Response{}, rsvp.ErrAborted
			}
			if r, done := l.Handle(ev); done {
				r.RT = clock.Now() - start
				return r, nil
			}
		}
		if clock.Now()-start >= timeout {
			return Response{TimedOut: true, RT: clock.Now() - start}, nil
		}
		clock.Tick()
	}
}

// Flush drops pending events and reports whether one of them was a quit.
func Flush(src EventSource) bool {
	quit := false
	for ev, ok := src.Poll(); ok; ev, ok = src.Poll() {
		if ev.Kind == Quit {
			quit = true
		}
	}
	return quit
}
