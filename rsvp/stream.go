// Package rsvp builds and presents rapid serial visual presentation streams.
package rsvp

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
)

// TrailingItems is the number of distractors shown after T2.
const TrailingItems = 6

var ErrInvalidStream = errors.New("invalid stream parameters")

type BlockType int

const (
	Identity BlockType = iota
	Colour
)

func (b BlockType) String() string {
	switch b {
	case Identity:
		return "identity"
	case Colour:
		return "colour"
	}
	return fmt.Sprintf("BlockType(%d)", int(b))
}

var (
	Gray  = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// Style names the text style an item is rendered with.
type Style struct {
	Name   string
	Colour color.RGBA
}

var StreamStyle = Style{Name: "stream", Colour: Gray}

type Role int

const (
	Distractor Role = iota
	Target1
	Target2
)

func (r Role) String() string {
	switch r {
	case Target1:
		return "T1"
	case Target2:
		return "T2"
	}
	return "distractor"
}

type Item struct {
	Symbol string
	Style  Style
	Role   Role
}

type Stream []Item

// BuildParams holds everything needed to lay out one stream.
// T1 and T2 must already carry the style they are shown in.
type BuildParams struct {
	BlockType  BlockType
	T1Position int
	T2Position int
	T1         Item
	T2         Item
}

func (p BuildParams) Validate() error {
	if p.BlockType != Identity && p.BlockType != Colour {
		return fmt.Errorf("%w: unknown block type %d", ErrInvalidStream, int(p.BlockType))
	}
	if p.T1Position < 0 || p.T2Position < 0 {
		return fmt.Errorf("%w: negative position (t1=%d, t2=%d)", ErrInvalidStream, p.T1Position, p.T2Position)
	}
	if p.T2Position <= p.T1Position {
		return fmt.Errorf("%w: t2 position %d must follow t1 position %d", ErrInvalidStream, p.T2Position, p.T1Position)
	}
	return nil
}

// Build lays out a stream of T2Position+TrailingItems items. Targets sit at
// their positions; every other slot is drawn with replacement from pool.
func Build(p BuildParams, pool Pool, rng *rand.Rand) (Stream, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: empty distractor pool", ErrInvalidStream)
	}

	t1, t2 := p.T1, p.T2
	t1.Role, t2.Role = Target1, Target2

	stream := make(Stream, p.T2Position+TrailingItems)
	for i := range stream {
		switch i {
		case p.T1Position:
			stream[i] = t1
		case p.T2Position:
			stream[i] = t2
		default:
			stream[i] = pool[rng.Intn(len(pool))]
		}
	}
	return stream, nil
}

// BuildTrial builds the stream for a prepared trial in the given block type.
func BuildTrial(block BlockType, tp TrialParams, rng *rand.Rand) (Stream, error) {
	p := BuildParams{
		BlockType:  block,
		T1Position: tp.T1Position,
		T2Position: tp.T2Position,
		T1:         Item{Symbol: tp.T1Identity, Style: StreamStyle},
		T2:         Item{Symbol: tp.T2Identity, Style: StreamStyle},
	}
	if block == Colour {
		p.T1.Style = Style{Name: "T1Col", Colour: tp.T1Colour}
		p.T2.Style = Style{Name: "T2Col", Colour: tp.T2Colour}
	}
	return Build(p, PoolFor(block), rng)
}
