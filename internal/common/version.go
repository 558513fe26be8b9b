package common

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Set with -ldflags "-X github.com/bobmcallan/pricedesk/internal/common.Version=..."
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// BuildInfo is what /api/version and the banner report.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Build   string `json:"build" yaml:"build"`
	Commit  string `json:"commit" yaml:"commit"`
}

// CurrentBuild returns the build identity in effect.
func CurrentBuild() BuildInfo {
	return BuildInfo{Version: Version, Build: Build, Commit: GitCommit}
}

// GetVersion returns the release version.
func GetVersion() string { return Version }

// LoadVersionFromFile reads a .version file next to the executable. Its
// entries fill only values that ldflags left at their defaults.
func LoadVersionFromFile() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = loadVersionFile(filepath.Join(filepath.Dir(exe), ".version"))
}

func loadVersionFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var info BuildInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return err
	}
	fill(&Version, "dev", info.Version)
	fill(&Build, "unknown", info.Build)
	fill(&GitCommit, "unknown", info.Commit)
	return nil
}

func fill(dst *string, unset, val string) {
	if *dst == unset && val != "" {
		*dst = val
	}
}
