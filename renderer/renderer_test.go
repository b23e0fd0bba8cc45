package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaderpad/shaderpad/shader"
)

func TestNativeHeaderLinesOffsetsOnlyUntranslatedSources(t *testing.T) {
	prog := shader.Assemble("void mainImage(out vec4 c, in vec2 p){}\n", shader.ProfileWebGL2)

	assert.Equal(t, prog.HeaderLines, nativeHeaderLines(prog, false),
		"direct compiles map driver lines back through the preamble offset")
	assert.Equal(t, 0, nativeHeaderLines(prog, true),
		"translator output has its own numbering; no preamble offset applies")
}
