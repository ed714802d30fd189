package engine

import (
	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/chewxy/math32"

	"github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"
)

// wheelGeometry caches the spokes that fill a ring, one per pixel of outer
// circumference so the band has no gaps. Each spoke takes the palette entry
// of its nearest whole degree.
type wheelGeometry struct {
	angles  []float32
	degrees []int
	inner  [][2]float32
	outer  [][2]float32
}

func newWheelGeometry(ring colorwheel.Ring) *wheelGeometry {
	n := int(math32.Ceil(2 * math32.Pi * ring.Outer))
	if n < colorwheel.Steps {
		n = colorwheel.Steps
	}
	g := &wheelGeometry{
		angles:  make([]float32, n),
		degrees: make([]int, n),
		inner:   make([][2]float32, n),
		outer:   make([][2]float32, n),
	}
	for i := range g.angles {
		a := float32(i) * 360 / float32(n)
		g.angles[i] = a
		g.degrees[i] = int(a + 0.5)
		g.inner[i][0], g.inner[i][1] = ring.Point(a, ring.Inner)
		g.outer[i][0], g.outer[i][1] = ring.Point(a, ring.Outer)
	}
	return g
}

func (g *wheelGeometry) draw(renderer *sdl.Renderer, w *colorwheel.Wheel) {
	for i := range g.angles {
		c := w.ColorAt(g.degrees[i])
		renderer.SetDrawColor(c.R, c.G, c.B, c.A)
		renderer.RenderLine(g.inner[i][0], g.inner[i][1], g.outer[i][0], g.outer[i][1])
	}
}

const circleSegments = 48

func drawCircle(renderer *sdl.Renderer, cx, cy, r float32) {
	px, py := cx, cy-r
	for i := 1; i <= circleSegments; i++ {
		rad := float32(i) * 2 * math32.Pi / circleSegments
		x, y := cx+r*math32.Sin(rad), cy-r*math32.Cos(rad)
		renderer.RenderLine(px, py, x, y)
		px, py = x, y
	}
}

// drawAnnulus strokes concentric circles inward from radius r to fill a
// band of the given thickness.
func drawAnnulus(renderer *sdl.Renderer, cx, cy, r, thickness float32) {
	if thickness < 1 {
		thickness = 1
	}
	for d := float32(0); d < thickness; d += 0.5 {
		drawCircle(renderer, cx, cy, r-d)
	}
}

// drawAsterisk draws three bars of the given span and thickness crossing at
// (cx, cy), 60 degrees apart.
func drawAsterisk(renderer *sdl.Renderer, cx, cy, span, thickness float32) {
	half := span / 2
	if thickness < 1 {
		thickness = 1
	}
	for _, deg := range []float32{0, 60, 120} {
		rad := deg * math32.Pi / 180
		dx, dy := half*math32.Sin(rad), -half*math32.Cos(rad)
		nx, ny := math32.Cos(rad), math32.Sin(rad)
		for o := -thickness / 2; o <= thickness/2; o += 0.5 {
			ox, oy := nx*o, ny*o
			renderer.RenderLine(cx-dx+ox, cy-dy+oy, cx+dx+ox, cy+dy+oy)
		}
	}
}
