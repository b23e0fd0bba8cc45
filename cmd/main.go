package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/shaderpad/shaderpad/api"
	"github.com/shaderpad/shaderpad/diagnostics"
	"github.com/shaderpad/shaderpad/editor"
	"github.com/shaderpad/shaderpad/glfwcontext"
	"github.com/shaderpad/shaderpad/options"
	"github.com/shaderpad/shaderpad/renderer"
	"github.com/shaderpad/shaderpad/shader"
	"github.com/shaderpad/shaderpad/store"
)

func init() {
	runtime.LockOSThread()
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func main() {
	base, err := options.Load("shaderpad.toml")
	if err != nil {
		fatal("failed to load config", err)
	}

	var (
		shaderFile  = flag.String("shader", base.ShaderFile, "shader source file to watch and render")
		name        = flag.String("name", "", "store record to load (updated on successful recompiles)")
		importID    = flag.String("import", "", "Shadertoy shader ID or URL to import into the store")
		apikey      = flag.String("apikey", "", "Shadertoy API key (from SHADERTOY_KEY env var if not set)")
		listRecords = flag.Bool("list", false, "list stored shader records and exit")
		width       = flag.Int("width", base.Width, "width of the output")
		height      = flag.Int("height", base.Height, "height of the output")
		storeDir    = flag.String("store", base.StoreDir, "shader record directory")
		webgl2      = flag.Bool("webgl2", base.WebGL2, "validate shaders against the WebGL2 spec before compiling")
		autoplay    = flag.Bool("autoplay", base.Autoplay, "start playing immediately")
		record      = flag.Bool("record", base.Record, "render to a video file instead of a window")
		duration    = flag.Float64("duration", base.Duration, "duration to record in seconds")
		fps         = flag.Int("fps", base.FPS, "frames per second for recording")
		output      = flag.String("output", base.OutputFile, "output file name for recording")
		codec       = flag.String("codec", base.Codec, "video codec for recording (h264 or hevc)")
		ffmpegPath  = flag.String("ffmpeg", base.FFmpegPath, "path to ffmpeg executable")
		logLevel    = flag.String("loglevel", base.LogLevel, "log level (debug, info, warn, error)")
	)
	flag.Parse()
	setupLogging(*logLevel)

	opts := base
	opts.ShaderFile = *shaderFile
	opts.Width, opts.Height = *width, *height
	opts.StoreDir = *storeDir
	opts.WebGL2 = *webgl2
	opts.Autoplay = *autoplay
	opts.Record = *record
	opts.Duration = *duration
	opts.FPS = *fps
	opts.OutputFile = *output
	opts.Codec = *codec
	opts.FFmpegPath = *ffmpegPath

	st, err := store.Open(opts.StoreDir)
	if err != nil {
		fatal("failed to open shader store", err)
	}

	if *listRecords {
		names, err := st.List()
		if err != nil {
			fatal("failed to list records", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if *importID != "" {
		key := *apikey
		if key == "" {
			key = os.Getenv("SHADERTOY_KEY")
		}
		imported, err := api.Fetch(key, *importID)
		if err != nil {
			fatal("failed to import shader", err)
		}
		recName := *name
		if recName == "" {
			recName = imported.ID
		}
		if _, err := st.Put(recName, imported.Code); err != nil {
			fatal("failed to save imported shader", err)
		}
		slog.Info("imported shader", "record", recName, "title", imported.Name, "author", imported.Username, "complete", imported.Complete)
		*name = recName
	}

	// Resolve the source text and, when editing a file, the watcher.
	var ed *editor.Editor
	var source string
	switch {
	case opts.ShaderFile != "":
		ed, err = editor.Open(opts.ShaderFile)
		if err != nil {
			fatal("failed to open shader file", err)
		}
		defer ed.Close()
		if source, err = ed.Text(); err != nil {
			fatal("failed to read shader file", err)
		}
		slog.Info("watching shader file", "path", ed.Path())
	case *name != "":
		rec, err := st.Get(*name)
		if err != nil {
			slog.Info("record not found, creating it", "record", *name)
			if rec, err = st.Put(*name, shader.DefaultSource); err != nil {
				fatal("failed to create record", err)
			}
		}
		source = rec.Code
	default:
		source = shader.DefaultSource
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		fatal("failed to initialize graphics", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts.Width, opts.Height, "shaderpad", !opts.Record)
	if err != nil {
		fatal("failed to create rendering surface", err)
	}
	defer ctx.Shutdown()

	profile := shader.ProfileDesktop
	if opts.WebGL2 {
		profile = shader.ProfileWebGL2
	}
	engine, err := renderer.New(ctx, profile)
	if err != nil {
		fatal("failed to initialize renderer", err)
	}
	defer engine.Dispose()

	ctx.SetPointerHandler(engine.Pointer())
	ctx.SetResizeHandler(engine.Resize)

	engine.CompileErrors.Subscribe(func(diags []diagnostics.Diagnostic) {
		for _, d := range diags {
			slog.Error("shader error", "line", d.Line, "message", d.Message)
		}
	})
	engine.CompileSuccess.Subscribe(func(struct{}) {
		slog.Info("shader compiled")
	})

	ok := engine.Compile(source)

	if opts.Record {
		if !ok {
			fatal("cannot export", fmt.Errorf("shader failed to compile"))
		}
		if err := engine.Export(&opts); err != nil {
			fatal("export failed", err)
		}
		slog.Info("export finished", "output", opts.OutputFile)
		return
	}

	ctx.RegisterKeyCallback(glfw.KeySpace, func() {
		if engine.State().IsPlaying {
			engine.Pause()
		} else {
			engine.Play()
		}
	})
	ctx.RegisterKeyCallback(glfw.KeyR, engine.Restart)

	if ok {
		if opts.Autoplay {
			engine.Play()
		} else {
			// Paused start still shows the first frame.
			engine.Restart()
		}
	}

	engine.Run(func() {
		if ed == nil || !ed.Changed() {
			return
		}
		text, err := ed.Text()
		if err != nil {
			// Likely a half-written save; the next change event retries.
			slog.Warn("failed to read shader file", "err", err)
			return
		}
		if engine.Compile(text) && *name != "" {
			if _, err := st.Put(*name, text); err != nil {
				slog.Warn("failed to update record", "record", *name, "err", err)
			}
		}
	})
}
