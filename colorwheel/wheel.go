// Package colorwheel provides the colour wheel used for colour reports.
//
// The wheel holds 360 colours of equal CIELAB lightness, one per degree of
// hue. A wheel can be rotated so that a hue does not sit at the same screen
// location on every trial. Screen angles are measured in degrees clockwise
// from twelve o'clock.
package colorwheel

import (
	"image/color"
	"math/rand"

	"github.com/chewxy/math32"
)

const (
	Steps = 360

	Lightness = 70
	Chroma    = 33
)

var palette = buildPalette()

type Wheel struct {
	Rotation int
}

func New() *Wheel {
	return &Wheel{}
}

// Rotate sets a uniformly random rotation in [0, 360).
func (w *Wheel) Rotate(rng *rand.Rand) {
	w.Rotation = rng.Intn(Steps)
}

// ColorAt returns the colour shown at the given screen angle.
func (w *Wheel) ColorAt(angle int) color.RGBA {
	return palette[wrap(angle-w.Rotation)]
}

// AngularError is the signed difference chosen-target wrapped to (-180, 180].
func AngularError(target, chosen float32) float32 {
	d := math32.Mod(chosen-target, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

func wrap(a int) int {
	a %= Steps
	if a < 0 {
		a += Steps
	}
	return a
}

func buildPalette() [Steps]color.RGBA {
	var p [Steps]color.RGBA
	for h := 0; h < Steps; h++ {
		rad := float32(h) * math32.Pi / 180
		p[h] = labToRGBA(Lightness, Chroma*math32.Cos(rad), Chroma*math32.Sin(rad))
	}
	return p
}

// labToRGBA converts CIELAB (D65) to 8-bit sRGB, clipping out-of-gamut channels.
func labToRGBA(l, a, b float32) color.RGBA {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	x := 0.95047 * labInv(fx)
	y := labInv(fy)
	z := 1.08883 * labInv(fz)

	r := 3.2406*x - 1.5372*y - 0.4986*z
	g := -0.9689*x + 1.8758*y + 0.0415*z
	bl := 0.0557*x - 0.2040*y + 1.0570*z

	return color.RGBA{R: toByte(r), G: toByte(g), B: toByte(bl), A: 255}
}

func labInv(t float32) float32 {
	const delta = float32(6.0 / 29.0)
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

func toByte(c float32) uint8 {
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*math32.Pow(c, 1/2.4) - 0.055
	}
	if c < 0 {
		c = 0
	} else if c > 1 {
		c = 1
	}
	return uint8(math32.Floor(c*255 + 0.5))
}
