package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/catalog"
	"github.com/battlewithbytes/demoize/internal/ui"
)

var (
	catalogTag    string
	catalogSearch string
)

func init() {
	catalogListCmd.Flags().StringVar(&catalogTag, "tag", "", "only demos with this tag")
	catalogListCmd.Flags().StringVar(&catalogSearch, "search", "", "only demos whose id, name, or tags contain this text")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogTagsCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the local demo catalog",
}

func loadCatalog() ([]catalog.Entry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return catalog.NewFileRepository(cfg.CatalogPath()).Load()
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged demos",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadCatalog()
		if err != nil {
			return err
		}
		if catalogTag != "" {
			entries = catalog.FilterTag(entries, catalogTag)
		}
		if catalogSearch != "" {
			entries = catalog.Search(entries, catalogSearch)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, ui.Dim.Render("No demos found."))
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s %s %s %s\n",
				ui.Cyan.Render(fmt.Sprintf("%-16s", e.ID)),
				ui.White.Render(fmt.Sprintf("%-28s", e.Name)),
				ui.Dim.Render(fmt.Sprintf("v%g", e.Version)),
				ui.Dim.Render(strings.Join(e.Tags, ", ")))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a catalog entry as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadCatalog()
		if err != nil {
			return err
		}
		e, ok := catalog.Find(entries, args[0])
		if !ok {
			return fmt.Errorf("demo %q: %w", args[0], catalog.ErrNotFound)
		}
		data, err := json.MarshalIndent(e, "", "    ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var catalogTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags used in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, t := range catalog.Tags(entries) {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}
