// vista - software 3D scene renderer
// Projects a scene graph and paints it onto a 2D surface: a PNG file, the
// terminal, or a desktop window.
//
// Usage:
//
//	vista [options] [scene.toml|scene.yaml|model.obj|model.glb]
//
// Without an argument a small demo scene is shown.
//
// Terminal and window controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll, +/- - Zoom in/out
//	W/S/A/D     - Orbit up/down/left/right
//	Space       - Random spin
//	R           - Reset view
//	X           - Toggle wireframe
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/taigrr/vista/pkg/config"
	"github.com/taigrr/vista/pkg/diag"
)

var (
	outPath   = flag.String("o", "", "Render one frame to this PNG file and exit")
	termMode  = flag.Bool("term", false, "Render interactively in the terminal")
	window    = flag.Bool("window", false, "Render interactively in a desktop window")
	watch     = flag.Bool("watch", false, "Reload the scene when its file changes")
	backend   = flag.String("backend", "", "Surface backend: framebuffer or gg (overrides the scene file)")
	width     = flag.Int("width", 0, "Output width in pixels (overrides the scene file)")
	height    = flag.Int("height", 0, "Output height in pixels (overrides the scene file)")
	targetFPS = flag.Int("fps", 30, "Target FPS for interactive modes")
	verbose   = flag.Bool("v", false, "Log diagnostics to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vista - software 3D scene renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vista [options] [scene.toml|scene.yaml|model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls (-term, -window):\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit the camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll, +/- - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *verbose {
		diag.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	v, err := newViewer(path)
	if err != nil {
		return err
	}

	if *watch && path != "" {
		stopWatch, err := watchFile(ctx, path, v.reload)
		if err != nil {
			return err
		}
		defer stopWatch()
	}

	switch {
	case *termMode:
		return runTerminal(ctx, v)
	case *window:
		return runWindow(ctx, v)
	}

	out := *outPath
	if out == "" {
		out = "vista.png"
	}
	v.render()
	if err := v.savePNG(out); err != nil {
		return err
	}
	fmt.Printf("Rendered %s (%d faces, %d lines, %d sprites)\n",
		out, v.info().Faces, v.info().Lines, v.info().Sprites)
	return nil
}

// loadConfig reads a scene file, wraps a model file in the demo stage, or
// returns the demo scene when path is empty.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case path == "":
		cfg = config.Default()
	case isSceneFile(path):
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	default:
		cfg = config.Default()
		cfg.Materials = nil
		cfg.Camera.Target = [3]float64{0, modelExtent / 2, 0}
		cfg.Objects = []config.Object{
			{Name: "grid", Kind: "grid", Size: 10, Divisions: 10},
			{Name: filepath.Base(path), Model: path},
		}
	}

	if *width > 0 {
		cfg.Viewport.Width = *width
	}
	if *height > 0 {
		cfg.Viewport.Height = *height
	}
	if *backend != "" {
		cfg.Renderer.Backend = *backend
	}
	return cfg, cfg.Validate()
}
