package shader

import "strings"

// Profile selects the GLSL dialect the assembled sources target.
type Profile int

const (
	// ProfileDesktop emits GLSL 330 core, compiled directly by the host driver.
	ProfileDesktop Profile = iota
	// ProfileWebGL2 emits GLSL ES 300 for the WebGL2 translation path.
	ProfileWebGL2
)

// ───────────────────────────── Fixed vertex stage ──────────────────────────────

const vertexShaderSourceGL = `#version 330 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ─────────────────────────── Fragment stage preamble ───────────────────────────

// The uniform set below is the compatibility contract with user shader text.
// Renaming, reordering types, or removing any declaration breaks existing
// shaders. iChannel0..3 are declared but never bound; they exist so shaders
// written against the full Shadertoy header still compile.
const preambleGL = `#version 330 core

uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform int   iFrame;
uniform float iFrameRate;
uniform vec4  iMouse;
uniform vec4  iDate;
uniform sampler2D iChannel0;
uniform sampler2D iChannel1;
uniform sampler2D iChannel2;
uniform sampler2D iChannel3;
uniform vec3  iChannelResolution[4];
uniform float iChannelTime[4];

in vec2 frag_uv;
out vec4 fragColor;
`

const preambleGLES = `#version 300 es
precision highp float;
precision highp int;

uniform vec3  iResolution;
uniform float iTime;
uniform float iTimeDelta;
uniform int   iFrame;
uniform float iFrameRate;
uniform vec4  iMouse;
uniform vec4  iDate;
uniform sampler2D iChannel0;
uniform sampler2D iChannel1;
uniform sampler2D iChannel2;
uniform sampler2D iChannel3;
uniform vec3  iChannelResolution[4];
uniform float iChannelTime[4];

in vec2 frag_uv;
out vec4 fragColor;
`

const mainWrapper = `
void main(void)
{
    mainImage(fragColor, frag_uv * iResolution.xy);
}
`

// ───────────────────────────────── Public API ──────────────────────────────────

// Program holds the assembled sources for one compile attempt. HeaderLines is
// the number of preamble lines preceding the first line of user code, counted
// from the emitted text itself so it can never drift from the preamble.
type Program struct {
	Vertex      string
	Fragment    string
	HeaderLines int
}

// VertexSource returns the fixed, non-user-editable vertex stage.
func VertexSource(p Profile) string {
	if p == ProfileWebGL2 {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// Preamble returns the fixed uniform-declaring header for the given profile.
func Preamble(p Profile) string {
	if p == ProfileWebGL2 {
		return preambleGLES
	}
	return preambleGL
}

// HeaderLineCount reports how many source lines the preamble contributes
// before the first line of user code.
func HeaderLineCount(p Profile) int {
	return strings.Count(Preamble(p), "\n")
}

// Assemble wraps a user fragment body (expected to define
// mainImage(out vec4, in vec2)) into complete vertex and fragment sources.
// The user source is inserted verbatim between the preamble and the fixed
// main wrapper. Pure string transform; no caching.
func Assemble(userSource string, p Profile) Program {
	return Program{
		Vertex:      VertexSource(p),
		Fragment:    Preamble(p) + userSource + mainWrapper,
		HeaderLines: HeaderLineCount(p),
	}
}

// DefaultSource is the starter shader used for newly created records.
const DefaultSource = `void mainImage(out vec4 fragColor, in vec2 fragCoord)
{
    vec2 uv = fragCoord / iResolution.xy;
    vec3 col = 0.5 + 0.5 * cos(iTime + uv.xyx + vec3(0.0, 2.0, 4.0));
    fragColor = vec4(col, 1.0);
}
`
