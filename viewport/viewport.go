// Package viewport tracks the zoom and pan of a preview.
//
// The translate is measured from the centred position of the content, in
// screen units. A gesture is a small state machine: Start with one point
// pans, Start with two points pinches (zoom + pan around the midpoint).
package viewport

import (
	"fmt"
	"math"
)

// Scale limits for any gesture or zoom.
const (
	MinScale = 0.1
	MaxScale = 10.0

	// fitMargin 是初次显示时内容占屏幕宽度的比例。
	fitMargin = 0.9
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Panning
	Pinching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Point is a screen position.
type Point struct {
	X, Y float64
}

// Viewport holds scale and translate. The zero value is not usable; call New.
type Viewport struct {
	Scale      float64
	TranslateX float64
	TranslateY float64

	state      State
	lastCenter Point
	lastDist   float64
}

// New returns a viewport fitted to the screen.
func New(screenWidth, contentWidth float64) *Viewport {
	v := &Viewport{}
	v.Reset(screenWidth, contentWidth)
	return v
}

// FitScale returns the initial scale: content takes 90% of the screen width.
func FitScale(screenWidth, contentWidth float64) float64 {
	if screenWidth <= 0 || contentWidth <= 0 {
		return 1
	}
	return Clamp(fitMargin * screenWidth / contentWidth)
}

// Clamp limits a scale to [MinScale, MaxScale].
func Clamp(scale float64) float64 {
	if math.IsNaN(scale) {
		return 1
	}
	return math.Max(MinScale, math.Min(scale, MaxScale))
}

// State reports the current gesture state.
func (v *Viewport) State() State { return v.state }

// Reset fits the content again and clears any gesture.
func (v *Viewport) Reset(screenWidth, contentWidth float64) {
	v.Scale = FitScale(screenWidth, contentWidth)
	v.TranslateX, v.TranslateY = 0, 0
	v.end()
}

// Start begins a gesture. Two or more points start a pinch, one point a pan.
func (v *Viewport) Start(points ...Point) {
	switch {
	case len(points) >= 2:
		v.state = Pinching
		v.lastDist = distance(points[0], points[1])
		v.lastCenter = midpoint(points[0], points[1])
	case len(points) == 1:
		v.state = Panning
		v.lastCenter = points[0]
	}
}

// Move updates the gesture. Points that do not match the current state are ignored.
func (v *Viewport) Move(points ...Point) {
	switch {
	case v.state == Pinching && len(points) >= 2:
		dist := distance(points[0], points[1])
		center := midpoint(points[0], points[1])
		if v.lastDist > 0 {
			v.Scale = Clamp(v.Scale * dist / v.lastDist)
		}
		v.pan(center)
		v.lastDist = dist
	case v.state == Panning && len(points) == 1:
		v.pan(points[0])
	}
}

// End is called with the number of points still down.
// A pinch ends when fewer than two remain, a pan when none remain.
func (v *Viewport) End(remaining int) {
	switch v.state {
	case Pinching:
		if remaining < 2 {
			v.end()
		}
	case Panning:
		if remaining < 1 {
			v.end()
		}
	}
}

// ZoomAt multiplies the scale by factor keeping the content under anchor in place.
// anchor is relative to the screen centre.
func (v *Viewport) ZoomAt(factor float64, anchor Point) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	next := Clamp(v.Scale * factor)
	k := next / v.Scale
	v.TranslateX = anchor.X - (anchor.X-v.TranslateX)*k
	v.TranslateY = anchor.Y - (anchor.Y-v.TranslateY)*k
	v.Scale = next
}

// PanBy shifts the translate directly.
func (v *Viewport) PanBy(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// ToScreen maps a content point (origin at the content centre) to a point
// relative to the screen centre.
func (v *Viewport) ToScreen(p Point) Point {
	return Point{X: p.X*v.Scale + v.TranslateX, Y: p.Y*v.Scale + v.TranslateY}
}

// ToContent is the inverse of ToScreen.
func (v *Viewport) ToContent(p Point) Point {
	return Point{X: (p.X - v.TranslateX) / v.Scale, Y: (p.Y - v.TranslateY) / v.Scale}
}

func (v *Viewport) pan(center Point) {
	v.TranslateX += center.X - v.lastCenter.X
	v.TranslateY += center.Y - v.lastCenter.Y
	v.lastCenter = center
}

func (v *Viewport) end() {
	v.state = Idle
	v.lastDist = 0
	v.lastCenter = Point{}
}

func distance(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

func midpoint(a, b Point) Point { return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2} }
