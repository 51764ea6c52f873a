package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/canvas"
	"github.com/battlewithbytes/demoize/internal/ui"
)

const renderLineHeight = 30

var (
	renderOut   string
	renderScale float64
)

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "HelloWorld.png", "output PNG path")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 1.0, "font scale")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <line>...",
	Short: "Render lines of text to a PNG, first line on top",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := canvas.New()
		c.SetColor(99, 99, 0xff)
		c.SetBackgroundColor(10, 50, 0)
		if err := c.SetFont(canvas.DefaultFont, renderScale, 0); err != nil {
			return err
		}
		drawLines(c, args, renderLineHeight)

		if err := c.DumpToPNG(renderOut); err != nil {
			return fmt.Errorf("writing %s: %w", renderOut, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green.Render("✓")+" Wrote "+ui.White.Render(renderOut))
		return nil
	},
}

// drawLines places lines top to bottom, dy pixels apart, with the last at y=0.
func drawLines(c *canvas.Canvas, lines []string, dy int) {
	for i, line := range lines {
		c.AddText(0, (len(lines)-1-i)*dy, line)
	}
}
