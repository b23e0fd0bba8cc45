// Package diagnostics maps raw GLSL compiler info logs back into
// user-source coordinates.
package diagnostics

import (
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic is one structured compile problem. Line is 1-based and refers
// to the user's fragment body, not the assembled source.
type Diagnostic struct {
	Line    int
	Message string
}

// Driver info logs look like:
//
//	ERROR: 0:27: 'foo' : undeclared identifier
//
// The first number is a source-string id and is ignored.
var errorLineRe = regexp.MustCompile(`^ERROR:\s*\d+:(\d+):\s*(.*)$`)

// Parse extracts diagnostics from a raw info log. headerLines is the number
// of lines the assembler's preamble contributes before the first line of
// user code; reported lines are shifted by that amount and clamped to 1 so
// errors against the synthetic wrapper never surface as line 0 or negative.
// Lines that do not match the expected pattern are dropped.
func Parse(log string, headerLines int) []Diagnostic {
	var out []Diagnostic
	for _, raw := range strings.Split(log, "\n") {
		m := errorLineRe.FindStringSubmatch(strings.TrimRight(raw, "\r\x00 "))
		if m == nil {
			continue
		}
		line, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		line -= headerLines
		if line < 1 {
			line = 1
		}
		out = append(out, Diagnostic{Line: line, Message: strings.TrimSpace(m[2])})
	}
	return out
}
