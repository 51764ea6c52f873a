package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/config"
	"github.com/battlewithbytes/demoize/internal/ui"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and create the demoize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.Field("Demos", cfg.DemosPath()))
		fmt.Fprintln(out, ui.Field("Catalog", cfg.CatalogPath()))
		fmt.Fprintln(out, ui.Field("Journal", cfg.JournalPath()))
		fmt.Fprintln(out, ui.Field("Source", cfg.SourceExt))
		fmt.Fprintln(out, ui.Field("Tags", strings.Join(cfg.DefaultTags, ", ")))
		fmt.Fprintln(out, ui.Field("Duplicates", cfg.Duplicates))
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Cyan.Render("Icon:"))
		fmt.Fprintln(out, ui.Dim.Render("  Width:     ")+ui.White.Render(fmt.Sprintf("%d-%d", cfg.Icon.MinLen, cfg.Icon.MaxLen)))
		fmt.Fprintln(out, ui.Dim.Render("  Lines:     ")+ui.White.Render(fmt.Sprintf("%d x %d px", cfg.Icon.MaxLines, cfg.Icon.LineHeight)))
		font := cfg.Icon.FontPath
		if font == "" {
			font = "built-in"
		}
		fmt.Fprintln(out, ui.Dim.Render("  Font:      ")+ui.White.Render(fmt.Sprintf("%s scale %g radius %g", font, cfg.Icon.FontScale, cfg.Icon.FontRadius)))
		fmt.Fprintln(out, ui.Dim.Render("  Colors:    ")+ui.White.Render(fmt.Sprintf("text %v on %v", cfg.Icon.TextColor, cfg.Icon.FrameColor)))
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Dim.Render("Config file: "+configPath()))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ExpandHome(configPath())
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		cfg := config.Default()
		if flagDemosDir != "" {
			cfg.DemosDir = flagDemosDir
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green.Render("✓")+" Wrote "+ui.White.Render(path))
		return nil
	},
}
