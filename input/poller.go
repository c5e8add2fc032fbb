package input

import "scene-viewer/math"

// Source is the raw device state the Poller reads from. core.Window satisfies it.
type Source interface {
	IsKeyPressed(key int) bool
	IsMouseButtonPressed(button int) bool
	GetCursorPos() (float64, float64)
}

// Bindings maps logical keys and buttons to raw codes understood by a Source.
type Bindings struct {
	Keys    [KeyCount]int
	Buttons [MouseButtonCount]int
}

// Poller snapshots a Source into a State once per frame. Scroll events
// arrive asynchronously through OnScroll and are held until the next Poll.
type Poller struct {
	source   Source
	bindings Bindings

	pendingScroll float32
	scrolled      bool
}

func NewPoller(source Source, bindings Bindings) *Poller {
	return &Poller{
		source:   source,
		bindings: bindings,
	}
}

// OnScroll is meant to be registered as the window's scroll callback.
func (p *Poller) OnScroll(_, yoff float64) {
	p.pendingScroll += float32(yoff)
	p.scrolled = true
}

// Poll refreshes st from the source. Pending scroll is moved into st; a
// scroll already sitting in st that nobody consumed is kept.
func (p *Poller) Poll(st *State) {
	for k := Key(0); k < KeyCount; k++ {
		st.Keys[k] = p.source.IsKeyPressed(p.bindings.Keys[k])
	}
	for b := MouseButton(0); b < MouseButtonCount; b++ {
		st.Buttons[b] = p.source.IsMouseButtonPressed(p.bindings.Buttons[b])
	}

	x, y := p.source.GetCursorPos()
	st.Pointer = math.Vec2{X: float32(x), Y: float32(y)}

	if p.scrolled {
		st.AddScroll(p.pendingScroll)
		p.pendingScroll = 0
		p.scrolled = false
	}
}
