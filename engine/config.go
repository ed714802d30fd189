package engine

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"gopkg.in/yaml.v3"

	"github.com/brettfeltmate/ABColour-NoSwitch/session"
)

// Colour is an sdl.Color that reads and writes as "R,G,B,A" in YAML.
type Colour sdl.Color

func (c Colour) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Colour) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

func (c Colour) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *Colour) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	col, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = Colour(col)
	return nil
}

type Config struct {
	Participant string `yaml:"participant,omitempty"`
	OutputDir   string `yaml:"output_dir"`
	Database    string `yaml:"database"`
	FontFile    string `yaml:"font_file,omitempty"`
	DLPDevice   string `yaml:"dlp_device,omitempty"`
	LogLevel    string `yaml:"log_level"`

	// PixelsPerDegree converts visual angle to screen pixels.
	PixelsPerDegree float32 `yaml:"pixels_per_degree"`
	ScreenWidth     int     `yaml:"screen_width"`
	ScreenHeight    int     `yaml:"screen_height"`
	Fullscreen      bool    `yaml:"fullscreen"`
	VSync           bool    `yaml:"vsync"`

	BGColor       Colour `yaml:"bg_color"`
	TextColor     Colour `yaml:"text_color"`
	FixationColor Colour `yaml:"fixation_color"`

	Experiment session.Config `yaml:"experiment"`
}

// ParseColor reads "R,G,B" or "R,G,B,A". Alpha defaults to 255.
func ParseColor(s string) (sdl.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return sdl.Color{}, fmt.Errorf("colour %q: want R,G,B or R,G,B,A", s)
	}
	v := [4]uint8{3: 255}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return sdl.Color{}, fmt.Errorf("colour %q: %w", s, err)
		}
		v[i] = uint8(n)
	}
	return sdl.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "ExpAssets/Data",
		Database:        "ExpAssets/abcolour.db",
		LogLevel:        "info",
		PixelsPerDegree: 40,
		ScreenWidth:     1920,
		ScreenHeight:    1080,
		VSync:           true,
		BGColor:         Colour{R: 45, G: 45, B: 45, A: 255},
		TextColor:       Colour{R: 255, G: 255, B: 255, A: 255},
		FixationColor:   Colour{R: 255, G: 255, B: 255, A: 255},
		Experiment:      session.DefaultConfig(),
	}
}

// LoadFromFile overlays the YAML file at path onto cfg. A missing file is
// not an error.
func (cfg *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) Validate() error {
	if cfg.Participant == "" {
		return errors.New("participant id is required")
	}
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.PixelsPerDegree <= 0 {
		return fmt.Errorf("pixels per degree must be positive, got %v", cfg.PixelsPerDegree)
	}
	if cfg.OutputDir == "" {
		return errors.New("output directory is required")
	}
	cfg.Experiment.Participant = cfg.Participant
	if err := cfg.Experiment.Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}
	return nil
}

// DegToPx converts a visual angle in degrees to pixels.
func (cfg *Config) DegToPx(deg float32) float32 {
	return deg * cfg.PixelsPerDegree
}

const CacheFile = ".abcolour_cache.yaml"

// SaveCache remembers the setup screen choices for the next launch.
func (cfg *Config) SaveCache() error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(CacheFile, data, 0o644)
}

func (cfg *Config) LoadCache() error {
	return cfg.LoadFromFile(CacheFile)
}
