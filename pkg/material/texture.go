package material

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"golang.org/x/image/draw"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
	WrapMirror                 // Tile, flipping every other copy
)

// Texture is an RGBA image used as a map by mesh and sprite materials.
// Sampling is nearest-neighbor.
type Texture struct {
	Name  string
	Image *image.RGBA
	WrapU WrapMode
	WrapV WrapMode
}

// NewTexture creates a transparent texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{Image: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// LoadTexture loads a texture from a PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	tex := TextureFromImage(img)
	tex.Name = path
	return tex, nil
}

// TextureFromImage copies img into a new texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Texture{Image: rgba}
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 color.RGBA) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Image.SetRGBA(x, y, c1)
			} else {
				tex.Image.SetRGBA(x, y, c2)
			}
		}
	}
	return tex
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.Image.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.Image.Rect.Dy() }

// Sample returns the texel at UV coordinates. V runs bottom to top.
func (t *Texture) Sample(u, v float64) color.RGBA {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}

	u = wrapCoord(u, t.WrapU)
	v = 1 - wrapCoord(v, t.WrapV)

	x := min(int(u*float64(w)), w-1)
	y := min(int(v*float64(h)), h-1)
	return t.Image.RGBAAt(x, y)
}

func wrapCoord(c float64, mode WrapMode) float64 {
	switch mode {
	case WrapClamp:
		return math.Max(0, math.Min(1, c))
	case WrapMirror:
		c = math.Abs(c)
		n := math.Floor(c)
		f := c - n
		if int(n)%2 == 1 {
			return 1 - f
		}
		return f
	default:
		return c - math.Floor(c)
	}
}
