package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/engine"
	"github.com/battlewithbytes/demoize/internal/icon"
	"github.com/battlewithbytes/demoize/internal/ui"
)

var (
	iconOut      string
	iconMinLen   int
	iconMaxLen   int
	iconMaxLines int
	iconPreview  bool
)

func init() {
	iconCmd.Flags().StringVarP(&iconOut, "out", "o", "icon.png", "output PNG path")
	iconCmd.Flags().IntVar(&iconMinLen, "min-len", 0, "minimum line width (default from config)")
	iconCmd.Flags().IntVar(&iconMaxLen, "max-len", 0, "maximum line width (default from config)")
	iconCmd.Flags().IntVar(&iconMaxLines, "max-lines", 0, "maximum number of lines (default from config)")
	iconCmd.Flags().BoolVar(&iconPreview, "preview", false, "print the wrapped lines instead of writing an image")
	rootCmd.AddCommand(iconCmd)
}

var iconCmd = &cobra.Command{
	Use:   "icon <label>...",
	Short: "Generate a text icon for a demo label",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gen := engine.IconGenerator(cfg.Icon, newLogger())
		if iconMinLen > 0 {
			gen.Params.MinLen = iconMinLen
		}
		if iconMaxLen > 0 {
			gen.Params.MaxLen = iconMaxLen
		}
		if iconMaxLines > 0 {
			gen.Params.MaxLines = iconMaxLines
		}
		if gen.Params.MaxLen < gen.Params.MinLen {
			return fmt.Errorf("max-len %d is below min-len %d", gen.Params.MaxLen, gen.Params.MinLen)
		}

		label := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		if iconPreview {
			layout, err := icon.Wrap(label, gen.Params)
			if err != nil {
				return err
			}
			for _, line := range layout.Lines {
				fmt.Fprintf(out, "|%-*s|\n", layout.Width, line)
			}
			if layout.Truncated {
				fmt.Fprintln(out, ui.Yellow.Render("label truncated"))
			}
			return nil
		}

		if err := gen.Make(label, iconOut); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Green.Render("✓")+" Wrote "+ui.White.Render(iconOut))
		return nil
	},
}
