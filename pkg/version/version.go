// Package version provides version metadata for the application.
package version

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// These variables are typically injected at build time using -ldflags
var (
	// Version holds the current version of evdispatch.
	Version = "dev"
	// Commit holds the current version commit of evdispatch.
	Commit = "none"
	// BuildDate holds the build date of evdispatch.
	BuildDate = "unknown"
)

// ErrIncompatible is returned when a manifest requires a version this build
// does not satisfy.
var ErrIncompatible = errors.New("incompatible evdispatch version")

// ErrInvalidConstraint is returned for a version constraint that does not parse.
var ErrInvalidConstraint = errors.New("invalid version constraint")

// Struct returns version information in a structured format.
type Struct struct {
	Version    string `json:"version" yaml:"version"`
	Commit     string `json:"commit" yaml:"commit"`
	BuildDate  string `json:"buildDate" yaml:"buildDate"`
	GoVersion  string `json:"goVersion" yaml:"goVersion"`
	Platform   string `json:"platform" yaml:"platform"`
	Prerelease bool   `json:"prerelease" yaml:"prerelease"`
}

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("evdispatch %s (commit: %s, date: %s)", Version, Commit, BuildDate)
}

// Get returns version information as a Struct.
func Get() Struct {
	s := Struct{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if v, err := semver.NewVersion(Version); err == nil {
		s.Prerelease = v.Prerelease() != ""
	} else {
		s.Prerelease = true
	}
	return s
}

// IsDev reports whether this is an untagged development build.
func IsDev() bool {
	_, err := semver.NewVersion(Version)
	return err != nil
}

// Check reports whether the running version satisfies constraint, e.g.
// ">= 1.2, < 2". An empty constraint and development builds always pass.
func Check(constraint string) error {
	return CheckVersion(Version, constraint)
}

// ValidConstraint reports whether constraint parses. Blank constraints are valid.
func ValidConstraint(constraint string) bool {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return true
	}
	_, err := semver.NewConstraint(constraint)
	return err == nil
}

// CheckVersion is Check against an explicit version string.
func CheckVersion(current, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidConstraint, constraint, err)
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		// dev builds are not comparable
		return nil
	}

	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("%w: %s does not satisfy %q: %w", ErrIncompatible, v, constraint, errors.Join(errs...))
	}
	return nil
}
