package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"

	"github.com/brettfeltmate/ABColour-NoSwitch/engine"
	"github.com/brettfeltmate/ABColour-NoSwitch/internal/logging"
	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binttf.Load().Unload()

	cfg := engine.DefaultConfig()
	if err := cfg.LoadCache(); err != nil {
		fmt.Printf("Ignoring setup cache: %v\n", err)
	}
	// The participant changes every session.
	cfg.Participant = ""

	if !engine.RunGuiSetup(cfg) {
		return
	}

	log := logging.NewLogger(cfg.LogLevel, os.Stderr)
	err := engine.Run(context.Background(), cfg, log)
	switch {
	case errors.Is(err, rsvp.ErrAborted):
		fmt.Println("Session aborted; completed trials were saved.")
		os.Exit(1)
	case err != nil:
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
