// Package renderer owns the compiled program lifecycle and drives the
// frame loop that feeds Shadertoy-compatible uniforms.
package renderer

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/shaderpad/shaderpad/diagnostics"
	"github.com/shaderpad/shaderpad/events"
	"github.com/shaderpad/shaderpad/frameclock"
	"github.com/shaderpad/shaderpad/graphics"
	"github.com/shaderpad/shaderpad/shader"
	"github.com/shaderpad/shaderpad/translator"
)

var glInitOnce sync.Once

type uniformLocations struct {
	resolution        int32
	time              int32
	timeDelta         int32
	frame             int32
	frameRate         int32
	mouse             int32
	date              int32
	channelResolution int32
	channelTime       int32
}

// Engine is the graphics context manager plus the uniform feed. One engine
// owns one surface, one fullscreen quad, and at most one active program.
// All methods must be called from the thread owning the GL context.
type Engine struct {
	context graphics.Context
	profile shader.Profile

	clock   *frameclock.Clock
	pointer *frameclock.Pointer

	quadVAO uint32
	quadVBO uint32

	program      uint32 // 0 when no successful compile yet
	locs         uniformLocations
	uniformNames map[string]string // original → mapped, translation mode only

	width, height int
	lastFPS       float64
	disposed      bool

	// Event channels consumed by external listeners (editor highlighting,
	// state displays). Broadcast happens on the render thread.
	CompileErrors  events.Stream[[]diagnostics.Diagnostic]
	CompileSuccess events.Stream[struct{}]
	Frames         events.Stream[frameclock.Snapshot]
}

var quadVertices = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, 1.0,
}

// New initializes the engine on ctx. The GL bindings are loaded once per
// process; the static fullscreen-quad buffer is created here and bound to
// attribute slot 0 for the engine's lifetime.
func New(ctx graphics.Context, profile shader.Profile) (*Engine, error) {
	e := &Engine{
		context: ctx,
		profile: profile,
		clock:   frameclock.New(ctx.Time),
		pointer: &frameclock.Pointer{},
	}

	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	gl.GenVertexArrays(1, &e.quadVAO)
	gl.GenBuffers(1, &e.quadVBO)
	gl.BindVertexArray(e.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, e.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	w, h := ctx.GetFramebufferSize()
	e.Resize(w, h)

	return e, nil
}

// Pointer returns the engine's pointer state machine so the surface can
// feed it input events.
func (e *Engine) Pointer() *frameclock.Pointer { return e.pointer }

// Compile assembles userSource, compiles and links it, and swaps it in as
// the active program. On any failure the previously active program stays
// untouched and keeps rendering; fragment errors are translated into
// user-source diagnostics and broadcast on CompileErrors.
func (e *Engine) Compile(userSource string) bool {
	prog := shader.Assemble(userSource, e.profile)

	fragmentSource := prog.Fragment
	translated := false
	var names map[string]string
	if e.profile == shader.ProfileWebGL2 {
		res, err := translator.Translate(fragmentSource)
		if err != nil {
			// Validation failures reference the pre-translation source, so
			// the same header offset applies.
			e.CompileErrors.Emit(diagnostics.Parse(err.Error(), prog.HeaderLines))
			return false
		}
		fragmentSource = res.Code
		names = res.Uniforms
		translated = true
	}

	// The vertex stage is fixed and should never fail; check anyway.
	vertexShader, vlog, err := compileStage(prog.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		slog.Error("vertex stage failed to compile", "log", vlog)
		return false
	}

	fragmentShader, flog, err := compileStage(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		diags := diagnostics.Parse(flog, nativeHeaderLines(prog, translated))
		slog.Debug("fragment compile failed", "diagnostics", len(diags))
		e.CompileErrors.Emit(diags)
		return false
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		linkLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(linkLog))
		slog.Error("program link failed", "log", strings.TrimRight(linkLog, "\x00"))
		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)
		return false
	}

	// Release the previous program only now that the replacement is fully
	// linked, so rendering never observes a disposed handle.
	if e.program != 0 {
		gl.DeleteProgram(e.program)
	}
	e.program = program
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	e.uniformNames = names
	e.cacheUniformLocations()

	e.CompileSuccess.Emit(struct{}{})
	return true
}

func (e *Engine) cacheUniformLocations() {
	gl.UseProgram(e.program)
	e.locs = uniformLocations{
		resolution:        e.uniformLocation("iResolution"),
		time:              e.uniformLocation("iTime"),
		timeDelta:         e.uniformLocation("iTimeDelta"),
		frame:             e.uniformLocation("iFrame"),
		frameRate:         e.uniformLocation("iFrameRate"),
		mouse:             e.uniformLocation("iMouse"),
		date:              e.uniformLocation("iDate"),
		channelResolution: e.uniformLocation("iChannelResolution[0]"),
		channelTime:       e.uniformLocation("iChannelTime[0]"),
	}

	// The samplers are declared but never bound; their companion arrays are
	// fed zeros once so shaders reading them see defined values.
	if e.locs.channelResolution != -1 {
		var zeros [12]float32
		gl.Uniform3fv(e.locs.channelResolution, 4, &zeros[0])
	}
	if e.locs.channelTime != -1 {
		var zeros [4]float32
		gl.Uniform1fv(e.locs.channelTime, 4, &zeros[0])
	}
}

func (e *Engine) uniformLocation(name string) int32 {
	if e.uniformNames != nil {
		base, suffix, _ := strings.Cut(name, "[")
		if mapped, ok := e.uniformNames[base]; ok {
			name = mapped
			if suffix != "" {
				name += "[" + suffix
			}
		}
	}
	return gl.GetUniformLocation(e.program, gl.Str(name+"\x00"))
}

// Play begins the frame loop. Resuming after a pause continues elapsed
// time seamlessly.
func (e *Engine) Play() {
	if e.clock.Play() {
		slog.Debug("playback started", "time", e.clock.Elapsed())
	}
}

// Pause freezes the timeline; the last rendered frame stays on screen.
func (e *Engine) Pause() {
	if e.clock.Pause() {
		slog.Debug("playback paused", "time", e.clock.Elapsed())
	}
}

// Restart zeroes elapsed time and frame count. When paused it renders one
// frame at time zero synchronously so the output updates immediately.
func (e *Engine) Restart() {
	e.clock.Restart()
	if !e.clock.Playing() && e.program != 0 {
		e.renderFrame()
		e.context.EndFrame()
	}
}

// State reports the current play state for external displays.
func (e *Engine) State() frameclock.Snapshot {
	return e.clock.Snapshot(e.lastFPS)
}

// Resize updates the backing pixel dimensions and the viewport. Must be
// called whenever the host layout changes size, including at startup.
func (e *Engine) Resize(width, height int) {
	e.width, e.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Run drives the loop until the surface is closed. onLoop, if non-nil,
// runs once per iteration on the render thread (used for applying pending
// source changes). While paused the loop only pumps events.
func (e *Engine) Run(onLoop func()) {
	for !e.context.ShouldClose() {
		if onLoop != nil {
			onLoop()
		}
		if e.clock.Playing() && e.program != 0 {
			e.renderFrame()
			e.context.EndFrame()
		} else {
			e.context.WaitEvents(0.05)
		}
	}
}

// renderFrame feeds uniforms for one frame and issues the draw call.
func (e *Engine) renderFrame() {
	f := e.clock.Tick()
	e.lastFPS = f.FPS

	gl.UseProgram(e.program)
	e.feedUniforms(f, e.pointer.Vec(), e.width, e.height)
	gl.Viewport(0, 0, int32(e.width), int32(e.height))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(e.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	e.clock.Advance()
	e.Frames.Emit(e.clock.Snapshot(f.FPS))
}

func (e *Engine) feedUniforms(f frameclock.Frame, mouse [4]float32, width, height int) {
	if e.locs.resolution != -1 {
		gl.Uniform3f(e.locs.resolution, float32(width), float32(height), 1.0)
	}
	if e.locs.time != -1 {
		gl.Uniform1f(e.locs.time, float32(f.Time))
	}
	if e.locs.timeDelta != -1 {
		gl.Uniform1f(e.locs.timeDelta, float32(f.Delta))
	}
	if e.locs.frame != -1 {
		gl.Uniform1i(e.locs.frame, int32(f.Index))
	}
	if e.locs.frameRate != -1 {
		gl.Uniform1f(e.locs.frameRate, float32(f.FPS))
	}
	if e.locs.mouse != -1 {
		gl.Uniform4f(e.locs.mouse, mouse[0], mouse[1], mouse[2], mouse[3])
	}
	if e.locs.date != -1 {
		gl.Uniform4f(e.locs.date, f.Date[0], f.Date[1], f.Date[2], f.Date[3])
	}
}

// Dispose stops rendering and releases the active program. Idempotent.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.clock.Pause()
	if e.program != 0 {
		gl.DeleteProgram(e.program)
		e.program = 0
	}
	gl.DeleteVertexArrays(1, &e.quadVAO)
	gl.DeleteBuffers(1, &e.quadVBO)
}

// nativeHeaderLines is the offset applied when mapping a native compile
// log back to user-source lines. Translated sources carry the translator's
// own line numbering, not the assembler's, so no offset applies; the
// clamp in the diagnostics parser keeps those lines at least 1.
func nativeHeaderLines(prog shader.Program, translated bool) int {
	if translated {
		return 0
	}
	return prog.HeaderLines
}

// compileStage compiles one shader stage, returning the raw info log on
// failure so it can be mapped back to user-source lines.
func compileStage(source string, stageType uint32) (uint32, string, error) {
	handle := gl.CreateShader(stageType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(logText))
		gl.DeleteShader(handle)
		return 0, strings.TrimRight(logText, "\x00"), fmt.Errorf("failed to compile shader stage")
	}
	return handle, "", nil
}
