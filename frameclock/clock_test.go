package frameclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNow drives the clock deterministically.
type fakeNow struct{ t float64 }

func (f *fakeNow) now() float64       { return f.t }
func (f *fakeNow) advance(dt float64) { f.t += dt }

func newTestClock() (*Clock, *fakeNow) {
	fn := &fakeNow{}
	c := New(fn.now)
	c.SetWallClock(func() time.Time {
		return time.Date(2026, time.March, 14, 1, 2, 3, 500_000_000, time.UTC)
	})
	return c, fn
}

func TestInitialStateIsPaused(t *testing.T) {
	c, _ := newTestClock()
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 0.0, c.Elapsed())
	assert.Equal(t, 0, c.FrameCount())
}

func TestPlayAdvancesElapsed(t *testing.T) {
	c, fn := newTestClock()
	require.True(t, c.Play())
	fn.advance(2.5)
	assert.InDelta(t, 2.5, c.Elapsed(), 1e-9)
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	fn.advance(1.0)
	assert.False(t, c.Play(), "second Play must not change state")
	assert.InDelta(t, 1.0, c.Elapsed(), 1e-9, "second Play must not reset elapsed time")
}

func TestPauseFreezesElapsed(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	fn.advance(3.0)
	require.True(t, c.Pause())
	fn.advance(10.0)
	assert.InDelta(t, 3.0, c.Elapsed(), 1e-9)
	assert.False(t, c.Pause(), "second Pause must be a no-op")
}

func TestResumeIsSeamless(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	fn.advance(3.0)
	c.Pause()

	// A long wait while paused must not leak into elapsed time.
	fn.advance(100.0)
	c.Play()
	assert.InDelta(t, 3.0, c.Elapsed(), 1e-9)

	fn.advance(0.5)
	assert.InDelta(t, 3.5, c.Elapsed(), 1e-9)
}

func TestRestartZeroesTimeAndFrames(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	fn.advance(5.0)
	c.Tick()
	c.Advance()
	c.Tick()
	c.Advance()
	require.Equal(t, 2, c.FrameCount())

	c.Restart()
	assert.Equal(t, 0, c.FrameCount())
	assert.InDelta(t, 0.0, c.Elapsed(), 1e-9)
	assert.Equal(t, Playing, c.State(), "restart must not change play state")
}

func TestRestartWhilePausedHoldsZero(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	fn.advance(5.0)
	c.Pause()

	c.Restart()
	fn.advance(7.0)
	assert.Equal(t, 0.0, c.Elapsed())
	assert.Equal(t, Paused, c.State())

	// Resuming after a paused restart starts from zero, not 5s.
	c.Play()
	fn.advance(1.0)
	assert.InDelta(t, 1.0, c.Elapsed(), 1e-9)
}

func TestFirstTickDefaultsTo60FPS(t *testing.T) {
	c, _ := newTestClock()
	c.Play()
	f := c.Tick()
	assert.Equal(t, 60.0, f.FPS)
	assert.InDelta(t, 1.0/60.0, f.Delta, 1e-9)
	assert.Equal(t, 0, f.Index)
}

func TestTickComputesDeltaAndFPS(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	c.Tick()
	c.Advance()

	fn.advance(0.02)
	f := c.Tick()
	assert.InDelta(t, 0.02, f.Delta, 1e-9)
	assert.InDelta(t, 50.0, f.FPS, 1e-6)
	assert.Equal(t, 1, f.Index)
}

func TestZeroDeltaFallsBackTo60FPS(t *testing.T) {
	c, _ := newTestClock()
	c.Play()
	c.Tick()
	c.Advance()

	// Same timestamp: degenerate delta.
	f := c.Tick()
	assert.Equal(t, 60.0, f.FPS)
	assert.InDelta(t, 1.0/60.0, f.Delta, 1e-9)
}

func TestFrameCountAdvancesOnlyThroughAdvance(t *testing.T) {
	c, _ := newTestClock()
	c.Play()
	c.Tick()
	c.Tick()
	assert.Equal(t, 0, c.FrameCount())
	c.Advance()
	assert.Equal(t, 1, c.FrameCount())
}

func TestTickDateComponents(t *testing.T) {
	c, _ := newTestClock()
	c.Play()
	f := c.Tick()

	assert.Equal(t, float32(2026), f.Date[0])
	assert.Equal(t, float32(2), f.Date[1], "month is zero-based")
	assert.Equal(t, float32(14), f.Date[2])
	// 01:02:03.5 past midnight.
	assert.InDelta(t, 3723.5, float64(f.Date[3]), 1e-3)
}

func TestSnapshotReflectsState(t *testing.T) {
	c, fn := newTestClock()
	c.Play()
	fn.advance(1.5)
	c.Advance()

	snap := c.Snapshot(59.9)
	assert.True(t, snap.IsPlaying)
	assert.InDelta(t, 1.5, snap.Time, 1e-9)
	assert.Equal(t, 1, snap.Frame)
	assert.Equal(t, 59.9, snap.FPS)
}

func TestNilNowUsesMonotonicClock(t *testing.T) {
	c := New(nil)
	c.Play()
	assert.GreaterOrEqual(t, c.Elapsed(), 0.0)
}
