package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/catalog"
	"github.com/battlewithbytes/demoize/internal/installer"
	"github.com/battlewithbytes/demoize/internal/ui"
)

var archiveTags string

func init() {
	archiveCmd.Flags().StringVar(&archiveTags, "tags", "", "tags, separated by spaces or commas (default from config)")
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Add an already staged demo to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		policy, err := catalog.ParsePolicy(cfg.Duplicates)
		if err != nil {
			return err
		}

		tags := cfg.DefaultTags
		if archiveTags != "" {
			if tags, err = installer.ParseTags(archiveTags); err != nil {
				return err
			}
		}

		a := &catalog.Archiver{
			Repo:       catalog.NewFileRepository(cfg.CatalogPath()),
			DemosDir:   cfg.DemosPath(),
			Duplicates: policy,
			Logger:     newLogger(),
		}
		entries, err := a.Archive(args[0], tags)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Green.Render("✓")+" Cataloged "+ui.White.Render(args[0])+
			ui.Dim.Render(fmt.Sprintf(" (%d demos)", len(entries))))
		return nil
	},
}
