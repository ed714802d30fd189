package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
	"github.com/brettfeltmate/ABColour-NoSwitch/session"
)

// Run opens the window and plays a full session. It returns rsvp.ErrAborted
// when the participant quits; trials completed before that are saved.
func Run(ctx context.Context, cfg *Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rec, err := openRecorder(ctx, cfg, time.Now())
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(ctx); err != nil {
			log.Error("close session", "error", err)
		}
	}()
	base := rec.base

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return fmt.Errorf("TTF_Init: %w", err)
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}

	window, renderer, err := sdl.CreateWindowAndRenderer("ABColour", cfg.ScreenWidth, cfg.ScreenHeight, windowFlags)
	if err != nil {
		return fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if cfg.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}

	fontPath := cfg.FontFile
	if fontPath == "" {
		fontPath = GetDefaultFontPath()
	}
	if fontPath == "" {
		return errors.New("no font found; pass a font file")
	}
	streamFont, err := ttf.OpenFont(fontPath, cfg.DegToPx(targetSizeDeg))
	if err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	defer streamFont.Close()
	textFont, err := ttf.OpenFont(fontPath, cfg.DegToPx(messageSizeDeg))
	if err != nil {
		return fmt.Errorf("load font %s: %w", fontPath, err)
	}
	defer textFont.Close()

	glyphs := NewGlyphCache(renderer, streamFont)
	defer glyphs.Destroy()
	for _, bt := range []rsvp.BlockType{rsvp.Identity, rsvp.Colour} {
		if err := glyphs.Preload(rsvp.PoolFor(bt)); err != nil {
			return err
		}
	}
	text := NewGlyphCache(renderer, textFont)
	defer text.Destroy()

	var marker rsvp.Marker
	if cfg.DLPDevice != "" {
		dlp, err := NewDLPIO8G(cfg.DLPDevice, 9600)
		if err != nil {
			log.Warn("trigger box unavailable", "device", cfg.DLPDevice, "error", err)
		} else {
			defer dlp.Close()
			marker = &TriggerMarker{Lines: dlp, Log: log}
		}
	}

	host := NewHost(cfg, renderer, glyphs, text, log)
	if rate := refreshRate(window); rate > 0 {
		log.Info("display", "refresh_hz", rate, "frame_ms", 1000/rate)
	}

	exp, err := session.New(cfg.Experiment, host, rec.Sink(), marker, log)
	if err != nil {
		return err
	}
	exp.SessionID = rec.sessionID

	frames := &FrameLog{ItemDuration: cfg.Experiment.ItemDuration}
	exp.OnStream = func(b session.Block, trial int, onsets []rsvp.Onset) {
		frames.Add(b, trial, onsets)
		fmt.Printf("\rBlock %d trial %d ", b.Number, trial)
		os.Stdout.Sync()
	}

	runErr := exp.Run(ctx)
	fmt.Println()

	if err := rec.Finish(ctx, runErr != nil); err != nil {
		log.Error("end session", "error", err)
	}
	if late := frames.Late(cfg.Experiment.ItemDuration / 2); late > 0 {
		log.Warn("late stream onsets", "count", late, "of", len(frames.Entries))
	}
	if err := frames.Save(base + "_frames.csv"); err != nil {
		log.Error("save frame log", "error", err)
	} else {
		fmt.Printf("Results saved to %s.csv\n", base)
	}
	return runErr
}

func refreshRate(window *sdl.Window) float32 {
	display := sdl.GetDisplayForWindow(window)
	mode, err := display.CurrentDisplayMode()
	if err != nil {
		return 0
	}
	return mode.RefreshRate
}
