package session

import (
	"fmt"
	"time"

	"github.com/brettfeltmate/ABColour-NoSwitch/response"
	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

type Config struct {
	Participant string `yaml:"participant,omitempty"`

	Blocks         int   `yaml:"blocks"`
	TrialsPerBlock int   `yaml:"trials_per_block"`
	Practice       bool  `yaml:"practice"`
	PracticeTrials int   `yaml:"practice_trials"`
	Lags           []int `yaml:"lags,flow"`

	// ItemDuration is how long each stream item is shown.
	ItemDuration time.Duration `yaml:"item_duration"`
	// StreamDelay separates fixation onset from the first stream item.
	StreamDelay     time.Duration `yaml:"stream_delay"`
	ResponseTimeout time.Duration `yaml:"response_timeout"`

	// Seed fixes the random sequence; 0 seeds from the clock.
	Seed int64 `yaml:"seed,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Blocks:          4,
		TrialsPerBlock:  64,
		Practice:        true,
		PracticeTrials:  16,
		Lags:            []int{1, 2, 3, 4, 5, 6, 7, 8},
		ItemDuration:    rsvp.DefaultItemDuration,
		StreamDelay:     time.Second,
		ResponseTimeout: response.DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if c.Blocks < 1 {
		return fmt.Errorf("blocks must be at least 1, got %d", c.Blocks)
	}
	if c.TrialsPerBlock < 1 {
		return fmt.Errorf("trials per block must be at least 1, got %d", c.TrialsPerBlock)
	}
	if c.Practice && c.PracticeTrials < 1 {
		return fmt.Errorf("practice trials must be at least 1, got %d", c.PracticeTrials)
	}
	if len(c.Lags) == 0 {
		return fmt.Errorf("at least one lag is required")
	}
	for _, l := range c.Lags {
		if l < rsvp.MinLag || l > rsvp.MaxLag {
			return fmt.Errorf("lag %d outside [%d,%d]", l, rsvp.MinLag, rsvp.MaxLag)
		}
	}
	if c.ItemDuration <= 0 {
		return fmt.Errorf("item duration must be positive, got %v", c.ItemDuration)
	}
	if c.ResponseTimeout <= 0 {
		return fmt.Errorf("response timeout must be positive, got %v", c.ResponseTimeout)
	}
	return nil
}
