package rsvp

import "slices"

// Letters excludes O so it cannot be mistaken for a zero.
var Letters = []string{
	"A", "B", "C", "D", "E",
	"F", "G", "H", "I", "J",
	"K", "L", "M", "N", "P",
	"Q", "R", "S", "T", "U",
	"V", "W", "X", "Y", "Z",
}

var Digits = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Pool is an indexable, ordered set of pre-styled distractors.
type Pool []Item

func NewPool(symbols []string, style Style) Pool {
	p := make(Pool, len(symbols))
	for i, s := range symbols {
		p[i] = Item{Symbol: s, Style: style, Role: Distractor}
	}
	return p
}

var (
	letterPool = NewPool(Letters, StreamStyle)
	digitPool  = NewPool(Digits, StreamStyle)
)

// PoolFor returns the distractor pool of a block type: letters around digit
// targets in identity blocks, gray digits around coloured digits otherwise.
func PoolFor(b BlockType) Pool {
	if b == Colour {
		return digitPool
	}
	return letterPool
}

func IsLetter(s string) bool { return slices.Contains(Letters, s) }

func IsDigit(s string) bool { return slices.Contains(Digits, s) }
