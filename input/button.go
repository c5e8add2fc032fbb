package input

// Button turns level-triggered polling into rising-edge events. One Button is
// needed per logical control.
type Button struct {
	pressedPrevious bool
}

// Update records the current level and reports whether it just went from
// released to pressed. Holding or releasing the button returns false.
func (b *Button) Update(pressedNow bool) bool {
	rising := pressedNow && !b.pressedPrevious
	b.pressedPrevious = pressedNow
	return rising
}
