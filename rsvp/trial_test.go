package rsvp

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"
)

func TestNewTrial_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w1, w2 := colorwheel.New(), colorwheel.New()

	for n := 0; n < 500; n++ {
		lag := MinLag + n%MaxLag
		tp, err := NewTrial(rng, lag, w1, w2)
		if err != nil {
			t.Fatalf("NewTrial: %v", err)
		}
		if tp.T1Position < 5 || tp.T1Position > 9 {
			t.Errorf("t1 position %d outside [5,9]", tp.T1Position)
		}
		if tp.T2Position != tp.T1Position+lag {
			t.Errorf("t2 position %d, want %d", tp.T2Position, tp.T1Position+lag)
		}
		if tp.T1Identity == tp.T2Identity {
			t.Errorf("identities not distinct: %q", tp.T1Identity)
		}
		if !IsDigit(tp.T1Identity) || !IsDigit(tp.T2Identity) {
			t.Errorf("identities must be digits: %q %q", tp.T1Identity, tp.T2Identity)
		}
		if tp.T1Colour == tp.T2Colour {
			t.Errorf("colours not distinct: %v", tp.T1Colour)
		}
		if w1.ColorAt(tp.T1Angle) != tp.T1Colour || w2.ColorAt(tp.T2Angle) != tp.T2Colour {
			t.Errorf("stored angles do not match colours")
		}
		if tp.T1Rotation != w1.Rotation || tp.T2Rotation != w2.Rotation {
			t.Errorf("rotations not recorded")
		}
	}
}

func TestNewTrial_LagRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, lag := range []int{0, -1, 9} {
		if _, err := NewTrial(rng, lag, colorwheel.New(), colorwheel.New()); !errors.Is(err, ErrInvalidStream) {
			t.Errorf("lag %d: err = %v, want ErrInvalidStream", lag, err)
		}
	}
}

func TestSampleDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	draw := func() string { return Digits[rng.Intn(len(Digits))] }
	for n := 0; n < 100; n++ {
		v, err := SampleDistinct(draw, "5")
		if err != nil {
			t.Fatal(err)
		}
		if v == "5" {
			t.Fatal("got the avoided value")
		}
	}
}

func TestSampleDistinct_SingletonAlphabet(t *testing.T) {
	calls := 0
	_, err := SampleDistinct(func() string { calls++; return "A" }, "A")
	if !errors.Is(err, ErrSampleExhausted) {
		t.Fatalf("err = %v, want ErrSampleExhausted", err)
	}
	if calls != MaxResamples {
		t.Errorf("draws = %d, want %d", calls, MaxResamples)
	}
}
