package frameclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerPressDragRelease(t *testing.T) {
	var p Pointer

	p.Press(10, 20)
	assert.True(t, p.Pressed())
	assert.Equal(t, [4]float32{10, 20, 10, 20}, p.Vec())

	p.Move(15, 25)
	assert.Equal(t, [4]float32{15, 25, 10, 20}, p.Vec(), "drag updates only the current position")

	p.Release()
	assert.False(t, p.Pressed())
	assert.Equal(t, [4]float32{15, 25, -10, -20}, p.Vec(), "release flips the click sign, magnitude preserved")
}

func TestPointerMoveWithoutPressIsIgnored(t *testing.T) {
	var p Pointer
	p.Move(100, 100)
	assert.Equal(t, [4]float32{0, 0, 0, 0}, p.Vec())

	p.Press(10, 20)
	p.Release()
	p.Move(100, 100)
	assert.Equal(t, [4]float32{10, 20, -10, -20}, p.Vec(), "motion after release must not track")
}

func TestPointerReleaseWithoutPressIsNoop(t *testing.T) {
	var p Pointer
	p.Press(10, 20)
	p.Release()
	// A second release must not flip the sign back.
	p.Release()
	assert.Equal(t, [4]float32{10, 20, -10, -20}, p.Vec())
}

// Leaving the surface mid-drag clears the pressed flag without the sign
// flip; a shader conceptually still mid-drag must not see the release
// artifact. Deliberately asymmetric with an explicit release.
func TestPointerLeaveWhilePressedSkipsSignFlip(t *testing.T) {
	var p Pointer

	p.Press(10, 20)
	p.Move(15, 25)
	p.Leave()

	assert.False(t, p.Pressed())
	assert.Equal(t, [4]float32{15, 25, 10, 20}, p.Vec(), "click position keeps its sign on leave")

	// The release delivered after the leave finds no press to end.
	p.Release()
	assert.Equal(t, [4]float32{15, 25, 10, 20}, p.Vec())
}

func TestPointerNewPressResetsClick(t *testing.T) {
	var p Pointer
	p.Press(10, 20)
	p.Release()

	p.Press(30, 40)
	assert.Equal(t, [4]float32{30, 40, 30, 40}, p.Vec())
}
