package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalSize returns the pixel size of a surface that fills cols by rows
// terminal cells using half-block characters.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// DrawHalfBlocks converts img to terminal cells and draws them in area.
// Each cell shows two vertically stacked pixels: ▀ with the top pixel as
// foreground and the bottom one as background.
func DrawHalfBlocks(scr uv.Screen, area uv.Rectangle, img image.Image) {
	b := img.Bounds()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: pixelColor(img, x, topY),
					Bg: pixelColor(img, x, botY),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// Draw paints the framebuffer onto the terminal screen.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	DrawHalfBlocks(scr, area, fb.Img)
}

// pixelColor returns the opaque color at (x, y), or nil for transparent
// and out of range pixels.
func pixelColor(img image.Image, x, y int) color.Color {
	if !(image.Point{x, y}).In(img.Bounds()) {
		return nil
	}
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	if c.A == 0 {
		return nil
	}
	c.A = 255
	return c
}
