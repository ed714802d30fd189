package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.bug.st/serial"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

// DLPIO8G drives the TTL lines of a DLP-IO8-G box over its serial port.
type DLPIO8G struct {
	port serial.Port
}

func NewDLPIO8G(device string, baudrate int) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(time.Second); err != nil {
		port.Close()
		return nil, err
	}

	d := &DLPIO8G{port: port}
	if !d.Ping() {
		port.Close()
		return nil, errors.New("device did not respond to ping correctly")
	}

	// Binary mode
	if _, err := port.Write([]byte{0x5C}); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{0x27}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

// Set raises the numbered lines, e.g. "12" for lines 1 and 2.
func (d *DLPIO8G) Set(lines string) error {
	_, err := d.port.Write([]byte(lines))
	return err
}

func (d *DLPIO8G) Unset(lines string) error {
	_, err := d.port.Write(unsetCommand(lines))
	return err
}

// unsetCommand maps line numbers to the box's clear commands.
func unsetCommand(lines string) []byte {
	const offCodes = "QWERTYUI"
	cmd := []byte(lines)
	for i, c := range cmd {
		if c >= '1' && c <= '8' {
			cmd[i] = offCodes[c-'1']
		}
	}
	return cmd
}

// Lines is anything that can raise and clear trigger lines.
type Lines interface {
	Set(lines string) error
	Unset(lines string) error
}

// TriggerMarker raises line 1 while T1 is visible and line 2 while T2 is.
type TriggerMarker struct {
	Lines Lines
	Log   *slog.Logger
}

func triggerLine(r rsvp.Role) string {
	switch r {
	case rsvp.Target1:
		return "1"
	case rsvp.Target2:
		return "2"
	}
	return ""
}

func (m *TriggerMarker) Onset(it rsvp.Item) {
	if line := triggerLine(it.Role); line != "" {
		if err := m.Lines.Set(line); err != nil {
			m.Log.Warn("trigger set failed", "line", line, "error", err)
		}
	}
}

func (m *TriggerMarker) Offset(it rsvp.Item) {
	if line := triggerLine(it.Role); line != "" {
		if err := m.Lines.Unset(line); err != nil {
			m.Log.Warn("trigger unset failed", "line", line, "error", err)
		}
	}
}
