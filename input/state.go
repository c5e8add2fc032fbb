package input

import "scene-viewer/math"

// Key is a logical key the viewer reacts to, independent of the physical
// binding.
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyReset
	KeyModeToggle
	KeyWireframe
	KeyCount
)

var keyNames = [KeyCount]string{
	KeyForward:    "forward",
	KeyBack:       "back",
	KeyLeft:       "left",
	KeyRight:      "right",
	KeyReset:      "reset",
	KeyModeToggle: "mode-toggle",
	KeyWireframe:  "wireframe",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return "unknown"
	}
	return keyNames[k]
}

// MouseButton is a logical pointer button.
type MouseButton int

const (
	MousePrimary MouseButton = iota
	MouseSecondary
	MouseButtonCount
)

// State is the input snapshot for a single frame. It is filled once per frame
// by a Poller and passed by pointer to whoever consumes it.
type State struct {
	Keys    [KeyCount]bool
	Buttons [MouseButtonCount]bool
	Pointer math.Vec2

	scroll   float32
	scrolled bool
}

func (s *State) KeyDown(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.Keys[k]
}

func (s *State) ButtonDown(b MouseButton) bool {
	if b < 0 || b >= MouseButtonCount {
		return false
	}
	return s.Buttons[b]
}

// AddScroll accumulates a vertical scroll offset and raises the scroll flag.
func (s *State) AddScroll(delta float32) {
	s.scroll += delta
	s.scrolled = true
}

// ConsumeScroll returns the pending scroll and clears it, so a single scroll
// event is applied at most once.
func (s *State) ConsumeScroll() (float32, bool) {
	delta, ok := s.scroll, s.scrolled
	s.scroll = 0
	s.scrolled = false
	return delta, ok
}

// Axis returns press(positive) - press(negative), one of -1, 0 or 1.
func (s *State) Axis(positive, negative Key) float32 {
	var v float32
	if s.KeyDown(positive) {
		v++
	}
	if s.KeyDown(negative) {
		v--
	}
	return v
}
