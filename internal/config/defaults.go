package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// Filesystem paths
	DefaultConfigPath = "~/.config/demoize/config.yml"
	DefaultDemosDir   = "~/canopy_demos"
	DefaultJournal    = "installs.db"

	// Environment overrides
	EnvDemosDir = "DEMOIZE_DEMOS_DIR"
	EnvConfig   = "DEMOIZE_CONFIG"

	// Packaging defaults
	DefaultSourceExt = ".py"
	DefaultTag       = "General"
	DefaultVersion   = 1.0

	// Duplicate id policies
	DuplicatesReject  = "reject"
	DuplicatesReplace = "replace"
	DuplicatesAllow   = "allow"

	// Icon layout defaults
	DefaultIconMinLen     = 4
	DefaultIconMaxLen     = 12
	DefaultIconMaxLines   = 5
	DefaultIconLineHeight = 30
	DefaultIconFontScale  = 2.0
	DefaultIconFontRadius = 1.3
)

// Default icon colors.
var (
	DefaultFrameColor = [3]int{37, 27, 163}
	DefaultTextColor  = [3]int{233, 233, 255}
)

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
