package encoder

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaderpad/shaderpad/options"
)

func testOptions() options.Options {
	opts := options.Default()
	opts.Width = 640
	opts.Height = 360
	opts.FPS = 30
	opts.OutputFile = "out.mp4"
	return opts
}

func TestInputArgsDescribeRawRGBA(t *testing.T) {
	opts := testOptions()
	args := inputArgs(&opts)

	assert.Equal(t, "rawvideo", args["f"])
	assert.Equal(t, "rgba", args["pix_fmt"])
	assert.Equal(t, "640x360", args["s"])
	assert.Equal(t, 30, args["framerate"])
}

func TestOutputArgsFlipAndFormat(t *testing.T) {
	opts := testOptions()
	args := outputArgs(&opts)

	assert.Equal(t, "vflip", args["vf"], "GL readback is bottom-up")
	assert.Equal(t, "yuv420p", args["pix_fmt"])
	assert.NotEmpty(t, args["c:v"])
}

func TestOutputArgsCodecSelection(t *testing.T) {
	opts := testOptions()

	h264 := outputArgs(&opts)
	opts.Codec = "hevc"
	hevc := outputArgs(&opts)

	if runtime.GOOS == "darwin" {
		assert.Equal(t, "h264_videotoolbox", h264["c:v"])
		assert.Equal(t, "hevc_videotoolbox", hevc["c:v"])
	} else {
		assert.Equal(t, "libx264", h264["c:v"])
		assert.Equal(t, "libx265", hevc["c:v"])
	}
}

func TestOutputArgsHEVCTagForMP4(t *testing.T) {
	opts := testOptions()
	opts.Codec = "hevc"

	args := outputArgs(&opts)
	assert.Equal(t, "hvc1", args["tag:v"])

	opts.OutputFile = "out.mkv"
	args = outputArgs(&opts)
	assert.NotContains(t, args, "tag:v")
}
