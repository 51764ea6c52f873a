// Package canvas is a small text-only drawing surface that renders to PNG.
//
// Coordinates are y-up: AddText(x, y, s) places the bottom of the text's
// line box at y. The output image is sized to the bounding box of everything
// drawn, so only relative positions matter.
//
// Fonts are TrueType or OpenType files. BDF bitmap fonts are accepted by
// AddFont but drawn with the built-in 7x13 face, which is itself a bitmap
// face of the same kind.
package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFont is always available and maps to the built-in 7x13 bitmap face.
const DefaultFont = "default"

// baseSize is the point size vector fonts are rendered at for scale 1,
// matching the height of the built-in face.
const baseSize = 13.0

type fontState struct {
	name   string
	scale  float64
	radius float64
}

type textOp struct {
	x, y  int
	text  string
	color color.NRGBA
	font  fontState
}

// Canvas accumulates text drawing operations and renders them on demand.
type Canvas struct {
	fg    color.NRGBA
	bg    color.NRGBA
	fonts map[string]*opentype.Font
	font  fontState
	ops   []textOp
}

// New returns a canvas with white text on black using the default font.
func New() *Canvas {
	return &Canvas{
		fg:    color.NRGBA{255, 255, 255, 255},
		bg:    color.NRGBA{0, 0, 0, 255},
		fonts: make(map[string]*opentype.Font),
		font:  fontState{name: DefaultFont, scale: 1},
	}
}

// SetColor sets the foreground color used by subsequent AddText calls.
func (c *Canvas) SetColor(r, g, b uint8) {
	c.fg = color.NRGBA{r, g, b, 255}
}

// SetBackgroundColor sets the fill color of the whole image.
func (c *Canvas) SetBackgroundColor(r, g, b uint8) {
	c.bg = color.NRGBA{r, g, b, 255}
}

// AddFont registers a font file under name. See the package doc for BDF files.
func (c *Canvas) AddFont(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading font %s: %w", path, err)
	}
	return c.AddFontData(name, data)
}

// AddFontData registers an in-memory font under name.
func (c *Canvas) AddFontData(name string, data []byte) error {
	if isBDF(data) {
		c.fonts[name] = nil
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing font %q: %w", name, err)
	}
	c.fonts[name] = f
	return nil
}

// isBDF reports whether data is a Glyph Bitmap Distribution Format font.
func isBDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("STARTFONT"))
}

// SetFont selects the font for subsequent AddText calls. scale enlarges the
// glyphs and radius > 0 softens their edges with a gaussian blur of that
// sigma, in output pixels.
func (c *Canvas) SetFont(name string, scale, radius float64) error {
	if name != DefaultFont {
		if _, ok := c.fonts[name]; !ok {
			return fmt.Errorf("font %q is not registered", name)
		}
	}
	if scale <= 0 {
		return fmt.Errorf("font scale must be positive, got %v", scale)
	}
	if radius < 0 {
		return fmt.Errorf("font radius must not be negative, got %v", radius)
	}
	c.font = fontState{name: name, scale: scale, radius: radius}
	return nil
}

// AddText queues text at (x, y) in the current color and font.
func (c *Canvas) AddText(x, y int, text string) {
	c.ops = append(c.ops, textOp{x: x, y: y, text: text, color: c.fg, font: c.font})
}

// Render draws every queued operation onto a new image.
func (c *Canvas) Render() (image.Image, error) {
	type placed struct {
		layer *image.NRGBA
		x, y  int
	}

	layers := make([]placed, 0, len(c.ops))
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, op := range c.ops {
		layer, err := c.renderText(op)
		if err != nil {
			return nil, err
		}
		w, h := layer.Bounds().Dx(), layer.Bounds().Dy()
		minX = min(minX, op.x)
		minY = min(minY, op.y)
		maxX = max(maxX, op.x+w)
		maxY = max(maxY, op.y+h)
		layers = append(layers, placed{layer: layer, x: op.x, y: op.y})
	}

	if len(layers) == 0 {
		return imaging.New(1, 1, c.bg), nil
	}

	width, height := max(maxX-minX, 1), max(maxY-minY, 1)
	img := imaging.New(width, height, c.bg)
	for _, p := range layers {
		b := p.layer.Bounds()
		if b.Empty() {
			continue
		}
		// Flip from y-up canvas space to image rows.
		top := maxY - (p.y + b.Dy())
		at := image.Pt(p.x-minX, top)
		draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(b.Size())}, p.layer, b.Min, draw.Over)
	}
	return img, nil
}

// DumpToPNG renders the canvas and writes it to path as a PNG file.
func (c *Canvas) DumpToPNG(path string) error {
	img, err := c.Render()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// renderText draws one operation onto a transparent layer sized to its line box.
func (c *Canvas) renderText(op textOp) (*image.NRGBA, error) {
	face, bitmap, err := c.face(op.font)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	m := face.Metrics()
	w := font.MeasureString(face, op.text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return layer, nil
	}

	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(op.color),
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(op.text)

	if bitmap && op.font.scale != 1 {
		sw := int(math.Round(float64(w) * op.font.scale))
		sh := int(math.Round(float64(h) * op.font.scale))
		if sw < 1 || sh < 1 {
			return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
		}
		layer = imaging.Resize(layer, sw, sh, imaging.NearestNeighbor)
	}
	if op.font.radius > 0 {
		layer = imaging.Blur(layer, op.font.radius)
	}
	return layer, nil
}

// face returns the font face for s and whether it is the built-in bitmap face,
// which is scaled after rasterizing instead of at rasterization time.
func (c *Canvas) face(s fontState) (font.Face, bool, error) {
	f := c.fonts[s.name]
	if f == nil {
		return basicfont.Face7x13, true, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    baseSize * s.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, false, fmt.Errorf("creating face for %q: %w", s.name, err)
	}
	return face, false, nil
}
