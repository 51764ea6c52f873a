package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/analyzer"
	"github.com/battlewithbytes/demoize/internal/ui"
)

var analyzeJSON bool

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Classify the children of a demo directory as code, data, or icon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		entries, err := analyzer.Analyze(args[0], analyzer.WithSourceExt(cfg.SourceExt))
		if err != nil {
			return err
		}
		sorted := analyzer.Sorted(entries)
		out := cmd.OutOrStdout()

		if analyzeJSON {
			data, err := json.MarshalIndent(sorted, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		for _, e := range sorted {
			kind := e.Category
			if e.IsDir {
				kind += " directory"
			}
			fmt.Fprintf(out, "%s %s\n", ui.White.Render(fmt.Sprintf("%-30s", e.Name)), ui.Cyan.Render(kind))
		}
		if !analyzer.HasIcon(entries) {
			fmt.Fprintln(out, ui.Dim.Render("no icon file; one will be generated when staged"))
		}
		return nil
	},
}
