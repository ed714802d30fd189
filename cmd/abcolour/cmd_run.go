package main

import (
	"fmt"
	"os"

	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"github.com/spf13/cobra"

	"github.com/brettfeltmate/ABColour-NoSwitch/engine"
	"github.com/brettfeltmate/ABColour-NoSwitch/internal/logging"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session for one participant",
		Long: `Run opens the experiment window and plays every block. Settings are
read from --config (YAML) when given, then overridden by any flags set on
the command line. ESC quits; trials completed so far are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger(cfg.LogLevel, os.Stderr)

			defer binsdl.Load().Unload()
			defer binttf.Load().Unload()

			return engine.Run(cmd.Context(), cfg, log)
		},
	}

	f := cmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.StringP("participant", "p", "", "Participant id")
	f.String("output-dir", "", "Directory for per-session CSV files")
	f.String("font", "", "TTF font file")
	f.String("dlp", "", "DLP-IO8-G device for TTL triggers")
	f.Int("width", 0, "Screen width")
	f.Int("height", 0, "Screen height")
	f.Float32("ppd", 0, "Pixels per degree of visual angle")
	f.Bool("fullscreen", false, "Enable fullscreen")
	f.Bool("no-vsync", false, "Disable VSync")
	f.String("bg-color", "", "Background color (R,G,B,A)")
	f.String("text-color", "", "Text color (R,G,B,A)")
	f.String("fixation-color", "", "Fixation color (R,G,B,A)")
	f.Int("blocks", 0, "Experimental blocks")
	f.Int("trials", 0, "Trials per experimental block")
	f.Bool("no-practice", false, "Skip the practice blocks")
	f.Int("practice-trials", 0, "Trials per practice block")
	f.Duration("item-duration", 0, "Stream item duration")
	f.Duration("timeout", 0, "Response timeout")
	f.Int64("seed", 0, "Random seed (0 = time based)")
	return cmd
}

// loadRunConfig layers defaults, the config file and explicitly set flags.
func loadRunConfig(cmd *cobra.Command) (*engine.Config, error) {
	cfg := engine.DefaultConfig()
	f := cmd.Flags()

	if path, _ := f.GetString("config"); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if f.Changed("db") {
		cfg.Database, _ = f.GetString("db")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("participant") {
		cfg.Participant, _ = f.GetString("participant")
	}
	if f.Changed("output-dir") {
		cfg.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("font") {
		cfg.FontFile, _ = f.GetString("font")
	}
	if f.Changed("dlp") {
		cfg.DLPDevice, _ = f.GetString("dlp")
	}
	if f.Changed("width") {
		cfg.ScreenWidth, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.ScreenHeight, _ = f.GetInt("height")
	}
	if f.Changed("ppd") {
		cfg.PixelsPerDegree, _ = f.GetFloat32("ppd")
	}
	if f.Changed("fullscreen") {
		cfg.Fullscreen, _ = f.GetBool("fullscreen")
	}
	if f.Changed("no-vsync") {
		noVSync, _ := f.GetBool("no-vsync")
		cfg.VSync = !noVSync
	}
	for name, dst := range map[string]*engine.Colour{
		"bg-color":       &cfg.BGColor,
		"text-color":     &cfg.TextColor,
		"fixation-color": &cfg.FixationColor,
	} {
		if f.Changed(name) {
			s, _ := f.GetString(name)
			col, err := engine.ParseColor(s)
			if err != nil {
				return nil, fmt.Errorf("--%s: %w", name, err)
			}
			*dst = engine.Colour(col)
		}
	}

	exp := &cfg.Experiment
	if f.Changed("blocks") {
		exp.Blocks, _ = f.GetInt("blocks")
	}
	if f.Changed("trials") {
		exp.TrialsPerBlock, _ = f.GetInt("trials")
	}
	if f.Changed("no-practice") {
		noPractice, _ := f.GetBool("no-practice")
		exp.Practice = !noPractice
	}
	if f.Changed("practice-trials") {
		exp.PracticeTrials, _ = f.GetInt("practice-trials")
	}
	if f.Changed("item-duration") {
		exp.ItemDuration, _ = f.GetDuration("item-duration")
	}
	if f.Changed("timeout") {
		exp.ResponseTimeout, _ = f.GetDuration("timeout")
	}
	if f.Changed("seed") {
		exp.Seed, _ = f.GetInt64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
