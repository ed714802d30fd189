package engine

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"github.com/brettfeltmate/ABColour-NoSwitch/rsvp"
)

func GetDefaultFontPath() string {
	// Check local fonts directory
	for _, dir := range []string{"fonts", "ExpAssets/Resources/font"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" || ext == ".ttc" {
					return filepath.Join(dir, entry.Name())
				}
			}
		}
	}

	// System paths
	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{"/System/Library/Fonts/Helvetica.ttc"}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

type Glyph struct {
	Texture *sdl.Texture
	W, H    float32
}

// GlyphCache holds rendered text textures. Neutral stream glyphs live for
// the whole run; target styles keep only their current glyph since their
// colour changes every trial.
type GlyphCache struct {
	renderer *sdl.Renderer
	font     *ttf.Font
	entries  map[string]*Glyph
	styled   map[string]styledGlyph
}

type styledGlyph struct {
	key   string
	glyph *Glyph
}

func NewGlyphCache(renderer *sdl.Renderer, font *ttf.Font) *GlyphCache {
	return &GlyphCache{
		renderer: renderer,
		font:     font,
		entries:  make(map[string]*Glyph),
		styled:   make(map[string]styledGlyph),
	}
}

func glyphKey(text string, c color.RGBA) string {
	return fmt.Sprintf("%s|%d,%d,%d,%d", text, c.R, c.G, c.B, c.A)
}

// Preload renders every symbol in pool ahead of the first stream.
func (c *GlyphCache) Preload(pool rsvp.Pool) error {
	for _, it := range pool {
		if _, err := c.Text(it.Symbol, it.Style.Colour); err != nil {
			return err
		}
	}
	return nil
}

// Text returns a cached texture for text drawn in colour col.
func (c *GlyphCache) Text(text string, col color.RGBA) (*Glyph, error) {
	key := glyphKey(text, col)
	if g, ok := c.entries[key]; ok {
		return g, nil
	}
	g, err := c.render(text, col)
	if err != nil {
		return nil, err
	}
	c.entries[key] = g
	return g, nil
}

// Item returns the glyph for a stream item.
func (c *GlyphCache) Item(it rsvp.Item) (*Glyph, error) {
	if it.Style.Name == rsvp.StreamStyle.Name {
		return c.Text(it.Symbol, it.Style.Colour)
	}
	key := glyphKey(it.Symbol, it.Style.Colour)
	if s, ok := c.styled[it.Style.Name]; ok {
		if s.key == key {
			return s.glyph, nil
		}
		s.glyph.Texture.Destroy()
		delete(c.styled, it.Style.Name)
	}
	g, err := c.render(it.Symbol, it.Style.Colour)
	if err != nil {
		return nil, err
	}
	c.styled[it.Style.Name] = styledGlyph{key: key, glyph: g}
	return g, nil
}

func (c *GlyphCache) render(text string, col color.RGBA) (*Glyph, error) {
	if c.font == nil {
		return nil, fmt.Errorf("no font loaded")
	}
	surf, err := c.font.RenderTextBlended(text, sdl.Color{R: col.R, G: col.G, B: col.B, A: col.A})
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", text, err)
	}
	defer surf.Destroy()
	tex, err := c.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", text, err)
	}
	return &Glyph{Texture: tex, W: float32(surf.W), H: float32(surf.H)}, nil
}

func (c *GlyphCache) Destroy() {
	for _, g := range c.entries {
		if g.Texture != nil {
			g.Texture.Destroy()
		}
	}
	for _, s := range c.styled {
		s.glyph.Texture.Destroy()
	}
}
