// Package session sequences blocks and trials of the attentional blink
// colour task and turns each trial into a datastore record.
package session

import (
	"math/rand"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

// Block is one planned block. Lags holds one entry per trial.
type Block struct {
	Number   int
	Practice bool
	Type     rsvp.BlockType
	Lags     []int
}

// Plan lays out the run: optional practice blocks (one per block type)
// followed by the experimental blocks. Block types alternate starting with
// identity, practice included.
func Plan(cfg Config, rng *rand.Rand) []Block {
	var blocks []Block
	add := func(practice bool, trials int) {
		n := len(blocks)
		bt := rsvp.Identity
		if n%2 == 1 {
			bt = rsvp.Colour
		}
		blocks = append(blocks, Block{
			Number:   n + 1,
			Practice: practice,
			Type:     bt,
			Lags:     balancedLags(cfg.Lags, trials, rng),
		})
	}

	if cfg.Practice {
		add(true, cfg.PracticeTrials)
		add(true, cfg.PracticeTrials)
	}
	for i := 0; i < cfg.Blocks; i++ {
		add(false, cfg.TrialsPerBlock)
	}
	return blocks
}

// balancedLags repeats the lag set until it covers n trials, shuffling each
// repetition so lags stay balanced within every full cycle.
func balancedLags(lags []int, n int, rng *rand.Rand) []int {
	if len(lags) == 0 || n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for len(out) < n {
		cycle := append([]int(nil), lags...)
		rng.Shuffle(len(cycle), func(i, j int) { cycle[i], cycle[j] = cycle[j], cycle[i] })
		out = append(out, cycle...)
	}
	return out[:n]
}
