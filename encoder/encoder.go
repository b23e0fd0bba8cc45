// Package encoder pipes rendered frames into ffmpeg to produce a video
// file from a shader.
package encoder

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/shaderpad/shaderpad/options"
)

// Encoder feeds raw RGBA frames to a running ffmpeg process.
type Encoder struct {
	pw   *io.PipeWriter
	errc chan error
}

func inputArgs(opts *options.Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": opts.FPS,
	}
}

func outputArgs(opts *options.Options) ffmpeg.KwArgs {
	out := ffmpeg.KwArgs{
		// GL readback rows run bottom-up.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}

	switch runtime.GOOS {
	case "darwin":
		if opts.Codec == "hevc" {
			out["c:v"] = "hevc_videotoolbox"
		} else {
			out["c:v"] = "h264_videotoolbox"
		}
	default:
		if opts.Codec == "hevc" {
			out["c:v"] = "libx265"
		} else {
			out["c:v"] = "libx264"
		}
	}

	if opts.Codec == "hevc" && strings.HasSuffix(opts.OutputFile, ".mp4") {
		out["tag:v"] = "hvc1"
	}
	return out
}

// New starts ffmpeg reading rawvideo from a pipe and writing the output
// file. Frames are then streamed with WriteFrame and finalized by Close.
func New(opts *options.Options) (*Encoder, error) {
	pr, pw := io.Pipe()

	cmd := ffmpeg.Input("pipe:", inputArgs(opts)).
		Output(opts.OutputFile, outputArgs(opts)).
		OverWriteOutput().
		WithInput(pr).
		ErrorToStdOut()
	if opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFmpegPath)
	}

	e := &Encoder{pw: pw, errc: make(chan error, 1)}
	go func() {
		e.errc <- cmd.Run()
	}()

	slog.Info("export started", "output", opts.OutputFile, "size", fmt.Sprintf("%dx%d", opts.Width, opts.Height), "fps", opts.FPS)
	return e, nil
}

// WriteFrame sends one tightly-packed RGBA frame.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if _, err := e.pw.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame to ffmpeg: %w", err)
	}
	return nil
}

// Close signals end of input and waits for ffmpeg to finish.
func (e *Encoder) Close() error {
	e.pw.Close()
	return <-e.errc
}
