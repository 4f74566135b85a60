package main

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// windowGame adapts a viewer to ebiten's game loop.
type windowGame struct {
	ctx    context.Context
	v      *viewer
	pixels *image.RGBA

	dragging     bool
	lastX, lastY int
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if g.dragging {
			dx, dy := x-g.lastX, y-g.lastY
			g.v.withOrbit(func(o *Orbit) {
				o.ApplyImpulse(-float64(dx)*dragSpeed/4, float64(dy)*dragSpeed/4)
			})
		}
		g.dragging, g.lastX, g.lastY = true, x, y
	} else {
		g.dragging = false
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		factor := zoomStep
		if wy > 0 {
			factor = 1 / zoomStep
		}
		g.v.withOrbit(func(o *Orbit) { o.Zoom(factor) })
	}

	g.v.withOrbit(func(o *Orbit) {
		switch {
		case ebiten.IsKeyPressed(ebiten.KeyW), ebiten.IsKeyPressed(ebiten.KeyUp):
			o.ApplyImpulse(0, keyImpulse/4)
		case ebiten.IsKeyPressed(ebiten.KeyS), ebiten.IsKeyPressed(ebiten.KeyDown):
			o.ApplyImpulse(0, -keyImpulse/4)
		}
		switch {
		case ebiten.IsKeyPressed(ebiten.KeyA), ebiten.IsKeyPressed(ebiten.KeyLeft):
			o.ApplyImpulse(-keyImpulse/4, 0)
		case ebiten.IsKeyPressed(ebiten.KeyD), ebiten.IsKeyPressed(ebiten.KeyRight):
			o.ApplyImpulse(keyImpulse/4, 0)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			o.ApplyImpulse((rand.Float64()-0.5)*0.2, (rand.Float64()-0.5)*0.1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			o.Reset()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
			o.Zoom(1 / zoomStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
			o.Zoom(zoomStep)
		}
	})
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.v.toggleWireframe()
	}

	g.v.step()
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	img := g.v.image()
	b := img.Bounds()
	if g.pixels == nil || g.pixels.Bounds().Size() != b.Size() {
		g.pixels = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(g.pixels, g.pixels.Bounds(), img, b.Min, draw.Src)

	if screen.Bounds().Size() == b.Size() {
		screen.WritePixels(g.pixels.Pix)
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.v.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// runWindow opens a desktop window and renders into it until closed.
func runWindow(ctx context.Context, v *viewer) error {
	w, h := v.renderer.Surface().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("vista")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(max(*targetFPS, 1))

	err := ebiten.RunGame(&windowGame{ctx: ctx, v: v})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
