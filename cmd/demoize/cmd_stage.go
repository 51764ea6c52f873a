package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/engine"
	"github.com/battlewithbytes/demoize/internal/stager"
)

var stageVersion float64

func init() {
	stageCmd.Flags().Float64Var(&stageVersion, "version", 1.0, "demo version recorded in metadata.json")
	rootCmd.AddCommand(stageCmd)
}

var stageCmd = &cobra.Command{
	Use:   "stage <name> <source-dir> <staging-dir>",
	Short: "Stage a demo directory without adding it to the catalog",
	Long: "Copies the source directory into the staging directory, zipping\n" +
		"subdirectories and generating icon.png when no icon is present.\n" +
		"The staging directory is deleted first if it exists.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		s := stager.New(engine.IconGenerator(cfg.Icon, logger), cfg.SourceExt, logger)
		meta, err := s.Stage(args[0], args[1], args[2], stageVersion)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(meta, "", "    ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}
