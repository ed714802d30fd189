package rsvp

import (
	"errors"
	"time"
)

// DefaultItemDuration is how long each stream item stays on screen.
const DefaultItemDuration = 120 * time.Millisecond

var ErrAborted = errors.New("run aborted by participant")

// Clock is a monotonic time source with a short blocking tick used
// between input polls.
type Clock interface {
	Now() time.Duration
	Tick()
}

// Display shows one stream item at a time.
type Display interface {
	Clear()
	DrawItem(Item)
	Present()
}

// Input reports whether the participant asked to quit. It must drain
// pending events on every call.
type Input interface {
	QuitRequested() bool
}

// Marker is told when targets appear and disappear, e.g. to raise TTL lines.
type Marker interface {
	Onset(Item)
	Offset(Item)
}

// Onset records when an item became visible.
type Onset struct {
	Index  int
	Symbol string
	Role   Role
	At     time.Duration
	Shown  time.Duration
}

type Presenter struct {
	Display      Display
	Input        Input
	Clock        Clock
	Marker       Marker
	ItemDuration time.Duration
}

// Present shows the stream in order, holding each item for ItemDuration
// measured from its flip. A quit request during any wait aborts the whole
// stream with ErrAborted; onsets gathered so far are returned.
func (p *Presenter) Present(stream Stream) ([]Onset, error) {
	dur := p.ItemDuration
	if dur <= 0 {
		dur = DefaultItemDuration
	}

	onsets := make([]Onset, 0, len(stream))
	for i, item := range stream {
		p.Display.Clear()
		p.Display.DrawItem(item)
		p.Display.Present()
		start := p.Clock.Now()
		if item.Role != Distractor && p.Marker != nil {
			p.Marker.Onset(item)
		}

		aborted := false
		for p.Clock.Now()-start < dur {
			if p.Input.QuitRequested() {
				aborted = true
				break
			}
			p.Clock.Tick()
		}

		end := p.Clock.Now()
		if item.Role != Distractor && p.Marker != nil {
			p.Marker.Offset(item)
		}
		onsets = append(onsets, Onset{Index: i, Symbol: item.Symbol, Role: item.Role, At: start, Shown: end - start})
		if aborted {
			return onsets, ErrAborted
		}
	}
	return onsets, nil
}
