package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/demoize/internal/config"
)

const intro = `Please specify
   - The identifier to use for the demo.
   - The readable name to use for the demo.
   - The directory location for the demo source.
   - The tags for classifying the demo.
The demo will be installed to your local demo list.`

// BuildForm constructs the install form. Empty answers get defaults.
func BuildForm(answers *Answers, defaultTags []string) *huh.Form {
	if answers.Tags == "" {
		answers.Tags = strings.Join(defaultTags, " ")
	}
	if answers.VersionStr == "" {
		answers.VersionStr = fmt.Sprintf("%.1f", config.DefaultVersion)
	}

	return huh.NewForm(
		welcomeGroup(),
		demoGroup(answers),
		sourceGroup(answers),
	).WithTheme(huh.ThemeCatppuccin())
}

// BuildConfirm asks whether to install after the check report is shown.
func BuildConfirm(answers *Answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Install %q as %s?", answers.Name, answers.ID)).
				Description("An existing staging directory for this id is replaced.").
				Affirmative("Install").
				Negative("Cancel").
				Value(&answers.Confirmed),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

func welcomeGroup() *huh.Group {
	return huh.NewGroup(
		huh.NewNote().
			Title("Demo Installer").
			Description(intro),
	)
}

func demoGroup(answers *Answers) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Description("Readable name, also used as the generated icon label.").
			Value(&answers.Name).
			Validate(ValidateName),
		huh.NewInput().
			Title("Identifier").
			Description("Letters and numbers only; names the staging directory.").
			Value(&answers.ID).
			Validate(ValidateID),
		huh.NewInput().
			Title("Tags").
			Description("Separated by spaces or commas.").
			Value(&answers.Tags).
			Validate(ValidateTags),
	)
}

func sourceGroup(answers *Answers) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Directory").
			Description("Demo source directory.").
			Value(&answers.Dir).
			Validate(ValidateDir),
		huh.NewInput().
			Title("Version").
			Value(&answers.VersionStr).
			Validate(ValidateVersion),
	)
}
