// Package frameclock holds the play/pause/restart timeline and the pointer
// state machine that feed per-frame uniform values. It never touches the
// graphics API, so the timing semantics are testable without a context.
package frameclock

import "time"

// State is the clock's play state.
type State int

const (
	Paused State = iota
	Playing
)

// Frame carries the uniform values for one rendered frame.
type Frame struct {
	Time  float64 // seconds since logical start
	Delta float64 // seconds since the previous frame
	FPS   float64 // instantaneous, 1/Delta
	Index int     // frame count before this frame renders (iFrame)
	Date  [4]float32
}

// Snapshot is the per-frame state broadcast to listeners after a draw.
type Snapshot struct {
	IsPlaying bool
	Time      float64
	Frame     int
	FPS       float64
}

// Clock implements the two-state timeline. Elapsed time is continuous
// across pause/resume and resets only on Restart. All methods must be
// called from the event-loop thread.
type Clock struct {
	now  func() float64   // monotonic seconds
	wall func() time.Time // for iDate

	state        State
	start        float64 // logical start timestamp while playing
	pausedAccum  float64 // elapsed seconds captured at last pause
	lastFrame    float64 // elapsed time of the previous Tick
	hasLastFrame bool
	frame        int
}

// New returns a paused clock reading time from now. A nil now uses the
// process monotonic clock.
func New(now func() float64) *Clock {
	if now == nil {
		begin := time.Now()
		now = func() float64 { return time.Since(begin).Seconds() }
	}
	return &Clock{now: now, wall: time.Now}
}

// SetWallClock overrides the wall-clock source used for the date uniform.
func (c *Clock) SetWallClock(wall func() time.Time) { c.wall = wall }

func (c *Clock) State() State  { return c.state }
func (c *Clock) Playing() bool { return c.state == Playing }

// FrameCount reports how many frames have been rendered since the last
// restart. It advances only through Advance.
func (c *Clock) FrameCount() int { return c.frame }

// Elapsed returns seconds since the logical start. While paused it holds
// the value captured at pause time.
func (c *Clock) Elapsed() float64 {
	if c.state == Playing {
		return c.now() - c.start
	}
	return c.pausedAccum
}

// Play transitions Paused→Playing and reports whether the state changed.
// Resuming recomputes the logical start so elapsed time continues from
// where it left off; the wait spent paused never leaks into iTime.
func (c *Clock) Play() bool {
	if c.state == Playing {
		return false
	}
	if c.pausedAccum > 0 {
		c.start = c.now() - c.pausedAccum
	} else {
		c.start = c.now()
	}
	c.state = Playing
	return true
}

// Pause transitions Playing→Paused and reports whether the state changed.
func (c *Clock) Pause() bool {
	if c.state == Paused {
		return false
	}
	c.pausedAccum = c.now() - c.start
	c.state = Paused
	return true
}

// Restart zeroes elapsed time and frame count regardless of play state.
func (c *Clock) Restart() {
	c.start = c.now()
	c.pausedAccum = 0
	c.frame = 0
	c.hasLastFrame = false
}

// Tick computes the uniform values for the frame about to render. It does
// not advance the frame count; call Advance after the draw call succeeds.
func (c *Clock) Tick() Frame {
	t := c.Elapsed()

	// First frame after start/restart has no predecessor; fall back to a
	// nominal 60Hz step instead of pushing a zero delta into user shaders.
	delta := t - c.lastFrame
	fps := 60.0
	if c.hasLastFrame && delta > 0 {
		fps = 1.0 / delta
	} else {
		delta = 1.0 / 60.0
	}
	c.lastFrame = t
	c.hasLastFrame = true

	return Frame{
		Time:  t,
		Delta: delta,
		FPS:   fps,
		Index: c.frame,
		Date:  dateVec(c.wall()),
	}
}

// Advance increments the frame count once per rendered frame.
func (c *Clock) Advance() { c.frame++ }

// Snapshot returns the state broadcast alongside frame events.
func (c *Clock) Snapshot(fps float64) Snapshot {
	return Snapshot{
		IsPlaying: c.state == Playing,
		Time:      c.Elapsed(),
		Frame:     c.frame,
		FPS:       fps,
	}
}

// dateVec packs wall-clock time the way Shadertoy's iDate expects:
// year, zero-based month, day, and seconds since midnight including the
// fractional part.
func dateVec(t time.Time) [4]float32 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return [4]float32{
		float32(t.Year()),
		float32(int(t.Month()) - 1),
		float32(t.Day()),
		float32(t.Sub(midnight).Seconds()),
	}
}
