package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"
	"github.com/brettfeltmate/ABColour-NoSwitch/response"
	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

// Stimulus sizes in degrees of visual angle.
const (
	targetSizeDeg    = 2.0
	messageSizeDeg   = 0.6
	fixSizeDeg       = 0.6
	fixThicknessDeg  = 0.1
	cursorSizeDeg    = 1.0
	cursorThickDeg   = 0.3
	wheelScreenRatio = 0.75
)

// Host draws the task with an SDL renderer and reads SDL input.
type Host struct {
	cfg      *Config
	renderer *sdl.Renderer
	glyphs   *GlyphCache
	text     *GlyphCache
	log      *slog.Logger

	start uint64
	ring  colorwheel.Ring
	wheel *wheelGeometry
}

func NewHost(cfg *Config, renderer *sdl.Renderer, glyphs, text *GlyphCache, log *slog.Logger) *Host {
	w, h := float32(cfg.ScreenWidth), float32(cfg.ScreenHeight)
	ring := colorwheel.NewRing(w/2, h/2, h*wheelScreenRatio)
	return &Host{
		cfg:      cfg,
		renderer: renderer,
		glyphs:   glyphs,
		text:     text,
		log:      log,
		start:    sdl.TicksNS(),
		ring:     ring,
		wheel:    newWheelGeometry(ring),
	}
}

func (h *Host) Now() time.Duration {
	return time.Duration(sdl.TicksNS() - h.start)
}

func (h *Host) Tick() {
	sdl.Delay(1)
}

func (h *Host) Poll() (response.Event, bool) {
	for {
		var ev sdl.Event
		if !sdl.PollEvent(&ev) {
			return response.Event{}, false
		}
		switch ev.Type {
		case sdl.EVENT_QUIT:
			return response.Event{Kind: response.Quit}, true
		case sdl.EVENT_KEY_DOWN:
			ke := ev.KeyboardEvent()
			if ke.Repeat {
				continue
			}
			key := ke.Key
			if key == sdl.K_ESCAPE {
				return response.Event{Kind: response.Quit}, true
			}
			return response.Event{Kind: response.KeyDown, Key: key.KeyName()}, true
		case sdl.EVENT_MOUSE_BUTTON_DOWN:
			me := ev.MouseButtonEvent()
			return response.Event{Kind: response.MouseDown, X: me.X, Y: me.Y}, true
		case sdl.EVENT_MOUSE_MOTION:
			mm := ev.MouseMotionEvent()
			return response.Event{Kind: response.MouseMove, X: mm.X, Y: mm.Y}, true
		}
	}
}

func (h *Host) Clear() {
	bg := h.cfg.BGColor
	h.renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	h.renderer.Clear()
}

func (h *Host) Present() {
	h.renderer.Present()
}

func (h *Host) DrawItem(it rsvp.Item) {
	g, err := h.glyphs.Item(it)
	if err != nil {
		h.log.Error("draw item", "symbol", it.Symbol, "error", err)
		return
	}
	h.blit(g, float32(h.cfg.ScreenWidth)/2, float32(h.cfg.ScreenHeight)/2)
}

func (h *Host) blit(g *Glyph, cx, cy float32) {
	dst := sdl.FRect{X: cx - g.W/2, Y: cy - g.H/2, W: g.W, H: g.H}
	h.renderer.RenderTexture(g.Texture, nil, &dst)
}

// Message shows text centred on screen, one texture per line.
func (h *Host) Message(text string) {
	h.Clear()
	lines := strings.Split(text, "\n")
	glyphs := make([]*Glyph, 0, len(lines))
	var total float32
	for _, line := range lines {
		if line == "" {
			line = " "
		}
		g, err := h.text.Text(line, h.cfg.TextColor.RGBA())
		if err != nil {
			h.log.Error("draw message", "error", err)
			continue
		}
		glyphs = append(glyphs, g)
		total += g.H
	}
	cx := float32(h.cfg.ScreenWidth) / 2
	y := (float32(h.cfg.ScreenHeight) - total) / 2
	for _, g := range glyphs {
		h.blit(g, cx, y+g.H/2)
		y += g.H
	}
	h.Present()
}

// Fixation draws a six-armed asterisk at screen centre.
func (h *Host) Fixation() {
	h.Clear()
	c := h.cfg.FixationColor
	h.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
	drawAsterisk(h.renderer,
		float32(h.cfg.ScreenWidth)/2, float32(h.cfg.ScreenHeight)/2,
		h.cfg.DegToPx(fixSizeDeg), h.cfg.DegToPx(fixThicknessDeg))
	h.Present()
}

// Wheel draws the colour wheel with the response cursor at (x, y).
func (h *Host) Wheel(w *colorwheel.Wheel, x, y float32) {
	h.Clear()
	h.wheel.draw(h.renderer, w)
	h.renderer.SetDrawColor(0, 0, 0, 255)
	drawAnnulus(h.renderer, x, y, h.cfg.DegToPx(cursorSizeDeg)/2, h.cfg.DegToPx(cursorThickDeg))
	h.Present()
}

func (h *Host) WheelRing() colorwheel.Ring {
	return h.ring
}

func (h *Host) HideCursor() {
	sdl.HideCursor()
}
