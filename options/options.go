// Package options holds the tool configuration, loaded from an optional
// TOML file and overridden by command-line flags.
package options

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Options configures the editor core and the export pipeline.
type Options struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ShaderFile string `toml:"shader_file"` // watched source file
	StoreDir   string `toml:"store_dir"`   // shader record directory
	WebGL2     bool   `toml:"webgl2"`      // strict WebGL2 validation mode
	Autoplay   bool   `toml:"autoplay"`
	LogLevel   string `toml:"log_level"` // debug, info, warn, error

	// Export settings.
	Record     bool    `toml:"record"`
	Duration   float64 `toml:"duration"` // seconds
	FPS        int     `toml:"fps"`
	OutputFile string  `toml:"output"`
	Codec      string  `toml:"codec"` // h264 or hevc
	FFmpegPath string  `toml:"ffmpeg"`
}

// Default returns the baseline configuration.
func Default() Options {
	return Options{
		Width:      1280,
		Height:     720,
		StoreDir:   defaultStoreDir(),
		Autoplay:   true,
		LogLevel:   "info",
		Duration:   10.0,
		FPS:        60,
		OutputFile: "output.mp4",
		Codec:      "h264",
	}
}

// Load reads a TOML config over the defaults. A missing file is not an
// error; it simply yields the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return opts, nil
}

func defaultStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "shaders"
	}
	return filepath.Join(dir, "shaderpad", "shaders")
}
