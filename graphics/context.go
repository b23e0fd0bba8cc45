package graphics

// Context is the rendering surface the engine draws into.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the rendered frame and pumps pending host events.
	// With vsync enabled this is the display-synchronized scheduling point.
	EndFrame()
	// WaitEvents pumps host events, blocking up to timeout seconds. Used
	// while paused so the loop does not spin.
	WaitEvents(timeout float64)
	GetFramebufferSize() (int, int)
	Time() float64
}

// PointerHandler receives pointer events in surface pixel coordinates with
// the origin at the bottom-left.
type PointerHandler interface {
	Press(x, y float32)
	Move(x, y float32)
	Release()
	Leave()
}
