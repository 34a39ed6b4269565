// SPDX-License-Identifier: MIT
//
// Package build carries the version metadata embedded into the tempo binary
// at link time:
//
//	go build -ldflags "-X tempo/pkg/build.buildName=tempo \
//	    -X tempo/pkg/build.buildVersion=0.3.0 \
//	    -X tempo/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	    -X tempo/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// A plain `go build` sets none of the variables and yields a development
// build identified as "dev".
package build

import "fmt"

const (
	DefaultName        = "tempo"
	DefaultDescription = "Estimate the tempo of audio clips from detected onsets"
	DevVersion         = "dev"
)

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Package-level variables populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:        DefaultName,
		Description: DefaultDescription,
		Time:        "unknown",
		Commit:      "unknown",
		Version:     DevVersion,
	}
)

// Initialize copies the ldflags values into the build information. A build
// with no flags at all is accepted as a development build; a release build
// must set every flag, otherwise the missing one is reported.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		return nil
	}

	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// VersionString renders the version line shown by `tempo --version`.
func VersionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", buildFlags.Version, buildFlags.Commit, buildFlags.Time)
}
