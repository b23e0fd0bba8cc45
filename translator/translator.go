// Package translator wraps the WebGL2 shader translator used for
// strict-validation mode: assembled WebGL2 fragment sources are checked
// and rewritten to GLSL 330 before the native compile.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

// Result is a translated fragment stage. Uniforms maps original uniform
// names to the translator's mangled names.
type Result struct {
	Code     string
	Uniforms map[string]string
}

var (
	once    sync.Once
	shared  *gst.ShaderTranslator
	initErr error
)

// The translator runs a wasm build of ANGLE; constructing it is expensive,
// so one instance is shared for the process lifetime.
func get() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		shared, initErr = gst.NewShaderTranslator(context.Background())
	})
	return shared, initErr
}

// Translate validates fragmentSource against the WebGL2 spec and returns
// the GLSL 330 translation. Validation errors come back in the standard
// "ERROR: <id>:<line>:" form and can be fed to the diagnostics parser.
func Translate(fragmentSource string) (*Result, error) {
	t, err := get()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shader translator: %w", err)
	}

	out, err := t.TranslateShader(fragmentSource, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL330)
	if err != nil {
		return nil, err
	}

	uniforms := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		uniforms[name] = v.MappedName
	}
	return &Result{Code: out.Code, Uniforms: uniforms}, nil
}
