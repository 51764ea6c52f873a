package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/engine"
	"github.com/battlewithbytes/demoize/internal/ui"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [demo-id]",
	Short: "Show journaled install attempts, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if _, err := os.Stat(cfg.JournalPath()); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, ui.Dim.Render("No installs recorded."))
			return nil
		}
		store, err := engine.NewStore(cfg.JournalPath())
		if err != nil {
			return err
		}
		defer store.Close()

		var demoID string
		if len(args) == 1 {
			demoID = args[0]
		}
		installs, err := store.ListInstalls(demoID)
		if err != nil {
			return err
		}
		if len(installs) == 0 {
			fmt.Fprintln(out, ui.Dim.Render("No installs recorded."))
			return nil
		}

		for _, inst := range installs {
			state := ui.Green.Render(inst.State)
			if inst.State == engine.StateFailed {
				state = ui.Red.Render(inst.State)
			}
			fmt.Fprintf(out, "%s  %s  %s  %s\n",
				ui.Dim.Render(inst.CreatedAt.Local().Format(time.DateTime)),
				ui.Cyan.Render(fmt.Sprintf("%-16s", inst.DemoID)),
				state,
				ui.Dim.Render(inst.SourceDir))
			if inst.Error != "" {
				fmt.Fprintln(out, "    "+ui.Red.Render(inst.Error))
			}
		}
		return nil
	},
}
