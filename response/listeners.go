package response

import "github.com/brettfeltmate/ABColour-NoSwitch/colorwheel"

// KeypressListener accepts keys present in its map and reports the mapped
// value.
type KeypressListener struct {
	Keys map[string]string
}

// DigitKeys maps keys 1-9 to the digit reported.
func DigitKeys() *KeypressListener {
	keys := make(map[string]string, 9)
	for d := '1'; d <= '9'; d++ {
		keys[string(d)] = string(d)
	}
	return &KeypressListener{Keys: keys}
}

func (l *KeypressListener) Handle(ev Event) (Response, bool) {
	if ev.Kind != KeyDown {
		return Response{}, false
	}
	v, ok := l.Keys[ev.Key]
	if !ok {
		return Response{}, false
	}
	return Response{Key: v}, true
}

// WheelListener accepts a click on the wheel band and reports the signed
// angular distance from the target colour.
type WheelListener struct {
	Ring        colorwheel.Ring
	TargetAngle float32

	cursorX, cursorY float32
}

// NewWheelListener starts with the cursor at the ring centre. targetAngle is
// the screen angle the target colour is shown at.
func NewWheelListener(ring colorwheel.Ring, targetAngle int) *WheelListener {
	return &WheelListener{Ring: ring, TargetAngle: float32(targetAngle), cursorX: ring.CX, cursorY: ring.CY}
}

func (l *WheelListener) Handle(ev Event) (Response, bool) {
	switch ev.Kind {
	case MouseMove:
		l.cursorX, l.cursorY = ev.X, ev.Y
	case MouseDown:
		l.cursorX, l.cursorY = ev.X, ev.Y
		a, onBand := l.Ring.AngleAt(ev.X, ev.Y)
		if onBand {
			return Response{AngleError: colorwheel.AngularError(l.TargetAngle, a)}, true
		}
	}
	return Response{}, false
}

// Cursor is the last known pointer position, for drawing.
func (l *WheelListener) Cursor() (float32, float32) {
	return l.cursorX, l.cursorY
}
