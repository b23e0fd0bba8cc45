package frameclock

import "math"

// Pointer tracks mouse state in surface pixel coordinates with the origin
// at the bottom-left (callers flip Y before feeding events). The encoding
// matches Shadertoy's iMouse contract: while pressed, zw hold the press
// position; on release their signs flip with the magnitude preserved so
// shaders can detect the release without losing the last click location.
type Pointer struct {
	x, y           float32
	clickX, clickY float32
	pressed        bool
}

// Press starts a drag: both the current and the click position snap to the
// press point.
func (p *Pointer) Press(x, y float32) {
	p.pressed = true
	p.x, p.y = x, y
	p.clickX, p.clickY = x, y
}

// Move updates the current position while a press is held. Motion with no
// button down is ignored.
func (p *Pointer) Move(x, y float32) {
	if !p.pressed {
		return
	}
	p.x, p.y = x, y
}

// Release ends a drag, flipping the click position's sign as the
// "released" signal. The current position is left untouched.
func (p *Pointer) Release() {
	if !p.pressed {
		return
	}
	p.pressed = false
	p.clickX = -float32(math.Abs(float64(p.clickX)))
	p.clickY = -float32(math.Abs(float64(p.clickY)))
}

// Leave handles the cursor leaving the surface mid-drag: the pressed flag
// clears but the click position keeps its sign, so a shader mid-drag never
// sees the release artifact. Intentionally asymmetric with Release.
func (p *Pointer) Leave() {
	p.pressed = false
}

// Pressed reports whether a press is currently held.
func (p *Pointer) Pressed() bool { return p.pressed }

// Vec returns the iMouse uniform value (x, y, clickX, clickY).
func (p *Pointer) Vec() [4]float32 {
	return [4]float32{p.x, p.y, p.clickX, p.clickY}
}
