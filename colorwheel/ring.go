package colorwheel

import "github.com/chewxy/math32"

// Ring is the on-screen annulus a wheel is drawn in.
type Ring struct {
	CX, CY       float32
	Outer, Inner float32
}

// NewRing centres a ring of the given diameter on (cx, cy). The band is a
// tenth of the diameter wide.
func NewRing(cx, cy, diameter float32) Ring {
	outer := diameter / 2
	return Ring{CX: cx, CY: cy, Outer: outer, Inner: outer - diameter/10}
}

// Point returns the screen position at angle degrees and radius r.
func (g Ring) Point(angle, r float32) (float32, float32) {
	rad := angle * math32.Pi / 180
	return g.CX + r*math32.Sin(rad), g.CY - r*math32.Cos(rad)
}

// AngleAt returns the screen angle of (x, y) and whether it lies on the band.
func (g Ring) AngleAt(x, y float32) (float32, bool) {
	dx, dy := x-g.CX, y-g.CY
	d := math32.Sqrt(dx*dx + dy*dy)
	a := math32.Atan2(dx, -dy) * 180 / math32.Pi
	if a < 0 {
		a += 360
	}
	return a, d >= g.Inner && d <= g.Outer
}
