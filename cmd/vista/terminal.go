package main

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/vista/pkg/render"
)

const (
	dragSpeed  = 0.01
	keyImpulse = 0.02
	zoomStep   = 1.1
)

// runTerminal renders the scene with half-block characters until ctx is
// done or the user quits.
func runTerminal(ctx context.Context, v *viewer) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	v.resize(render.TerminalSize(cols, rows))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mouseDown              bool
		lastMouseX, lastMouseY int
	)

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				v.resize(render.TerminalSize(ev.Width, ev.Height))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					cancel()
					return
				case ev.MatchString("w", "up"):
					v.withOrbit(func(o *Orbit) { o.ApplyImpulse(0, keyImpulse) })
				case ev.MatchString("s", "down"):
					v.withOrbit(func(o *Orbit) { o.ApplyImpulse(0, -keyImpulse) })
				case ev.MatchString("a", "left"):
					v.withOrbit(func(o *Orbit) { o.ApplyImpulse(-keyImpulse, 0) })
				case ev.MatchString("d", "right"):
					v.withOrbit(func(o *Orbit) { o.ApplyImpulse(keyImpulse, 0) })
				case ev.MatchString("space"):
					v.withOrbit(func(o *Orbit) {
						o.ApplyImpulse((rand.Float64()-0.5)*0.2, (rand.Float64()-0.5)*0.1)
					})
				case ev.MatchString("r"):
					v.withOrbit((*Orbit).Reset)
				case ev.MatchString("+", "="):
					v.withOrbit(func(o *Orbit) { o.Zoom(1 / zoomStep) })
				case ev.MatchString("-", "_"):
					v.withOrbit(func(o *Orbit) { o.Zoom(zoomStep) })
				case ev.MatchString("x"):
					v.toggleWireframe()
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					// cells are twice as tall as they are wide
					v.withOrbit(func(o *Orbit) {
						o.ApplyImpulse(-float64(dx)*dragSpeed, float64(dy)*dragSpeed*2)
					})
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					v.withOrbit(func(o *Orbit) { o.Zoom(1 / zoomStep) })
				case uv.MouseWheelDown:
					v.withOrbit(func(o *Orbit) { o.Zoom(zoomStep) })
				}
			}
		}
	}()

	frame := time.Second / time.Duration(max(*targetFPS, 1))
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		v.step()
		img := v.image()
		b := img.Bounds()
		area := uv.Rectangle(image.Rect(0, 0, b.Dx(), (b.Dy()+1)/2))
		render.DrawHalfBlocks(term, area, img)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}
