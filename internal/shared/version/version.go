// Package version exposes build metadata injected with -ldflags.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time:
//
//	go build -ldflags "-X coursegate/internal/shared/version.Version=v1.4.0 -X coursegate/internal/shared/version.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = ""
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Release bool   `json:"release"`
}

func Get() Info {
	v := Normalize(Version)
	return Info{
		Version: v,
		Commit:  Commit,
		Release: semver.IsValid(v) && semver.Prerelease(v) == "",
	}
}

// Normalize ensures the "v" prefix semver expects: "1.2.3" -> "v1.2.3".
// Non-numeric versions such as "dev" are returned unchanged.
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	if version[0] >= '0' && version[0] <= '9' {
		return "v" + version
	}
	return version
}
