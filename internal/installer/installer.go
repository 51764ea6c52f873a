// Package installer is the interactive front end for installing a demo.
package installer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/battlewithbytes/demoize/internal/engine"
	"github.com/battlewithbytes/demoize/internal/ui"
)

// Installer installs checked answers. *engine.Engine satisfies it.
type Installer interface {
	Install(ctx context.Context, req engine.InstallRequest) (*engine.Result, error)
}

// Run shows the install form, prints the check report, and installs the
// demo once confirmed.
func Run(ctx context.Context, w io.Writer, eng Installer, sourceExt string, defaultTags []string) error {
	answers := &Answers{}
	if err := BuildForm(answers, defaultTags).RunWithContext(ctx); err != nil {
		return fmt.Errorf("installer cancelled: %w", err)
	}

	report, err := answers.Check(sourceExt)
	if err != nil {
		fmt.Fprintln(w, ui.Red.Render(err.Error()))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Please correct data problems.")
		return nil
	}
	for _, line := range report.Lines {
		if strings.HasPrefix(line, "WARNING:") {
			line = ui.Yellow.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if err := BuildConfirm(answers).RunWithContext(ctx); err != nil {
		return fmt.Errorf("installer cancelled: %w", err)
	}
	if !answers.Confirmed {
		fmt.Fprintln(w, "Installation cancelled.")
		return nil
	}

	return Install(ctx, w, eng, answers, report)
}

// Install hands checked answers to eng and prints the outcome.
func Install(ctx context.Context, w io.Writer, eng Installer, answers *Answers, report *Report) error {
	res, err := eng.Install(ctx, engine.InstallRequest{
		FromDir: report.Dir,
		ID:      answers.ID,
		Name:    answers.Name,
		Tags:    report.Tags,
		Version: report.Version,
	})
	if err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}

	fmt.Fprintln(w, ui.Green.Render("Installed. Reload demo list to test."))
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Field("Staged", res.Install.StagingDir))
	fmt.Fprintln(w, ui.Field("Catalog", fmt.Sprintf("%d demos", len(res.Catalog))))
	fmt.Fprintln(w, ui.Field("Journal", res.Install.ID))
	return nil
}
