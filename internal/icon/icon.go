package icon

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/battlewithbytes/demoize/internal/canvas"
	"github.com/battlewithbytes/demoize/internal/logging"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Style controls how a wrapped label is drawn.
type Style struct {
	FontName   string  // canvas font name; empty or canvas.DefaultFont uses the built-in face
	FontPath   string  // optional TrueType/OpenType file registered as FontName
	FontScale  float64 // glyph scale factor
	FontRadius float64 // edge smoothing radius
	Frame      RGB     // background and frame marker color
	Text       RGB     // label color
}

// DefaultStyle returns the colors and font settings used for demo icons.
func DefaultStyle() Style {
	return Style{
		FontName:   canvas.DefaultFont,
		FontScale:  2.0,
		FontRadius: 1.3,
		Frame:      RGB{37, 27, 163},
		Text:       RGB{233, 233, 255},
	}
}

// Generator renders label icons.
type Generator struct {
	Params Params
	Style  Style
	Logger *log.Logger
}

// NewGenerator returns a Generator with the default layout and style.
func NewGenerator() *Generator {
	return &Generator{Params: DefaultParams(), Style: DefaultStyle()}
}

// Make lays out label and writes the rendered icon to path as PNG.
func (g *Generator) Make(label, path string) error {
	logger := logging.OrDiscard(g.Logger)

	layout, err := Wrap(label, g.Params)
	if err != nil {
		return err
	}
	if layout.Truncated {
		logger.Warn("icon label truncated", "label", label, "max_lines", g.Params.MaxLines)
	}

	c, err := g.newCanvas()
	if err != nil {
		return err
	}
	Draw(c, layout, g.Params, g.Style)

	if err := c.DumpToPNG(path); err != nil {
		return fmt.Errorf("rendering icon: %w", err)
	}
	logger.Debug("icon written", "path", path, "lines", len(layout.Lines))
	return nil
}

func (g *Generator) newCanvas() (*canvas.Canvas, error) {
	c := canvas.New()
	name := g.Style.FontName
	if name == "" {
		name = canvas.DefaultFont
	}
	if g.Style.FontPath != "" {
		if name == canvas.DefaultFont {
			name = "icon"
		}
		if err := c.AddFont(name, g.Style.FontPath); err != nil {
			return nil, fmt.Errorf("loading icon font: %w", err)
		}
	}
	scale := g.Style.FontScale
	if scale <= 0 {
		scale = 1
	}
	if err := c.SetFont(name, scale, g.Style.FontRadius); err != nil {
		return nil, fmt.Errorf("selecting icon font: %w", err)
	}
	return c, nil
}

// Draw queues a wrapped layout on c: invisible frame markers at the bottom
// and top edges fix the canvas size, then each line from the top down.
func Draw(c *canvas.Canvas, layout *Layout, p Params, s Style) {
	c.SetColor(s.Frame.R, s.Frame.G, s.Frame.B)
	c.SetBackgroundColor(s.Frame.R, s.Frame.G, s.Frame.B)

	marker := strings.Repeat("*", layout.Longest)
	c.AddText(0, 0, marker)
	c.AddText(0, layout.MaxY, marker)

	c.SetColor(s.Text.R, s.Text.G, s.Text.B)
	x := p.LineHeight / 2
	y := layout.StartY
	for _, line := range layout.Lines {
		c.AddText(x, y, line)
		y -= p.LineHeight
	}
}
