package renderer

import (
	"fmt"
	"log/slog"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/shaderpad/shaderpad/encoder"
	"github.com/shaderpad/shaderpad/frameclock"
	"github.com/shaderpad/shaderpad/options"
)

// offscreenTarget is an RGBA8 framebuffer used for export readback.
type offscreenTarget struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
}

func newOffscreenTarget(width, height int) (*offscreenTarget, error) {
	o := &offscreenTarget{width: width, height: height}

	gl.GenFramebuffers(1, &o.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.GenTextures(1, &o.textureID)
	gl.BindTexture(gl.TEXTURE_2D, o.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, o.textureID, 0)

	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return nil, fmt.Errorf("offscreen framebuffer is not complete")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return o, nil
}

func (o *offscreenTarget) readPixels(buf []byte) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, o.fbo)
	gl.ReadPixels(0, 0, int32(o.width), int32(o.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

func (o *offscreenTarget) destroy() {
	gl.DeleteFramebuffers(1, &o.fbo)
	gl.DeleteTextures(1, &o.textureID)
}

// Export renders the active program at a fixed timestep into an offscreen
// target and streams the frames to ffmpeg. The interactive timeline is not
// touched: exported time always starts at zero with a zeroed mouse.
func (e *Engine) Export(opts *options.Options) error {
	if e.program == 0 {
		return fmt.Errorf("no compiled program to export")
	}

	target, err := newOffscreenTarget(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	defer target.destroy()

	enc, err := encoder.New(opts)
	if err != nil {
		return err
	}

	totalFrames := int(opts.Duration * float64(opts.FPS))
	timeStep := 1.0 / float64(opts.FPS)
	pixels := make([]byte, opts.Width*opts.Height*4)

	for i := 0; i < totalFrames; i++ {
		f := frameclock.Frame{
			Time:  float64(i) * timeStep,
			Delta: timeStep,
			FPS:   float64(opts.FPS),
			Index: i,
		}

		gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
		gl.UseProgram(e.program)
		e.feedUniforms(f, [4]float32{}, opts.Width, opts.Height)
		gl.Viewport(0, 0, int32(opts.Width), int32(opts.Height))
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.BindVertexArray(e.quadVAO)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

		target.readPixels(pixels)
		if err := enc.WriteFrame(pixels); err != nil {
			slog.Error("export aborted", "frame", i, "err", err)
			enc.Close()
			return err
		}
	}

	return enc.Close()
}
