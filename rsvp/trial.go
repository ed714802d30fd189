package rsvp

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"
)

const (
	MinT1Position = 5
	T1Positions   = 5

	MinLag = 1
	MaxLag = 8
)

// TrialParams is generated once per trial and read-only afterwards.
type TrialParams struct {
	T1Position int
	T2Position int
	Lag        int

	T1Identity string
	T2Identity string

	T1Angle  int
	T2Angle  int
	T1Colour color.RGBA
	T2Colour color.RGBA

	T1Rotation int
	T2Rotation int
}

// NewTrial rotates both wheels and draws target identities, colours and
// positions for one trial.
func NewTrial(rng *rand.Rand, lag int, w1, w2 *colorwheel.Wheel) (TrialParams, error) {
	if lag < MinLag || lag > MaxLag {
		return TrialParams{}, fmt.Errorf("%w: lag %d outside [%d,%d]", ErrInvalidStream, lag, MinLag, MaxLag)
	}

	w1.Rotate(rng)
	w2.Rotate(rng)

	tp := TrialParams{
		Lag:        lag,
		T1Position: MinT1Position + rng.Intn(T1Positions),
		T1Rotation: w1.Rotation,
		T2Rotation: w2.Rotation,
	}
	tp.T2Position = tp.T1Position + lag

	digit := func() string { return Digits[rng.Intn(len(Digits))] }
	tp.T1Identity = digit()
	t2, err := SampleDistinct(digit, tp.T1Identity)
	if err != nil {
		return TrialParams{}, fmt.Errorf("t2 identity: %w", err)
	}
	tp.T2Identity = t2

	tp.T1Angle = rng.Intn(colorwheel.Steps)
	tp.T1Colour = w1.ColorAt(tp.T1Angle)

	// Angle and colour are drawn together so the stored angle always
	// matches the colour kept.
	type pick struct {
		angle int
		c     color.RGBA
	}
	p, err := SampleUntil(func() pick {
		a := rng.Intn(colorwheel.Steps)
		return pick{angle: a, c: w2.ColorAt(a)}
	}, func(p pick) bool { return p.c != tp.T1Colour })
	if err != nil {
		return TrialParams{}, fmt.Errorf("t2 colour: %w", err)
	}
	tp.T2Angle, tp.T2Colour = p.angle, p.c

	return tp, nil
}
