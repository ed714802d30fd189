package rsvp

import (
	"errors"
	"fmt"
)

// MaxResamples bounds every rejection-sampling loop.
const MaxResamples = 100

var ErrSampleExhausted = errors.New("no acceptable sample found")

// SampleUntil draws until accept reports true, giving up after MaxResamples
// draws.
func SampleUntil[T any](draw func() T, accept func(T) bool) (T, error) {
	for i := 0; i < MaxResamples; i++ {
		if v := draw(); accept(v) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w after %d attempts", ErrSampleExhausted, MaxResamples)
}

// SampleDistinct draws until the result differs from avoid.
func SampleDistinct[T comparable](draw func() T, avoid T) (T, error) {
	return SampleUntil(draw, func(v T) bool { return v != avoid })
}
