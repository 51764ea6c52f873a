package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/engine"
	"github.com/battlewithbytes/demoize/internal/installer"
	"github.com/battlewithbytes/demoize/internal/ui"
)

var (
	installFrom    string
	installID      string
	installName    string
	installTags    string
	installVersion string
)

func init() {
	installCmd.Flags().StringVar(&installFrom, "from", "", "demo source directory")
	installCmd.Flags().StringVar(&installID, "id", "", "demo identifier")
	installCmd.Flags().StringVar(&installName, "name", "", "readable demo name")
	installCmd.Flags().StringVar(&installTags, "tags", "", "tags, separated by spaces or commas (default from config)")
	installCmd.Flags().StringVar(&installVersion, "version", "", "demo version (default 1.0)")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a demo into the local catalog",
	Long: "Install a demo into the local catalog.\n\n" +
		"Without flags an interactive form collects the demo details. With --from,\n" +
		"--id, and --name the demo is checked and installed without prompting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.New(cfg, newLogger())
		if err != nil {
			return err
		}
		defer eng.Close()

		out := cmd.OutOrStdout()
		if installFrom == "" && installID == "" && installName == "" {
			return installer.Run(cmd.Context(), out, eng, cfg.SourceExt, cfg.DefaultTags)
		}

		answers := &installer.Answers{
			ID:         installID,
			Name:       installName,
			Tags:       installTags,
			Dir:        installFrom,
			VersionStr: installVersion,
		}
		if answers.Tags == "" {
			answers.Tags = strings.Join(cfg.DefaultTags, " ")
		}
		report, err := answers.Check(cfg.SourceExt)
		if err != nil {
			return fmt.Errorf("%w\nPlease correct data problems.", err)
		}
		for _, line := range report.Lines {
			if strings.HasPrefix(line, "WARNING:") {
				line = ui.Yellow.Render(line)
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
		return installer.Install(cmd.Context(), out, eng, answers, report)
	},
}
