package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Triple identifies a release artifact for one host platform.
type Triple struct {
	// OS is the normalized operating system name used by the release layout.
	OS string
	// Arch is the normalized architecture name used by the release layout.
	Arch string
	// Ext is the archive extension the release uses for this OS.
	Ext string
}

// UnsupportedError reports a host with no release mapping.
// It carries the raw, unnormalized values for diagnostics.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform: os %q, arch %q", e.OS, e.Arch)
}

const (
	// baseBinaryName is the executable shipped inside every release archive.
	baseBinaryName = "cerebrium"

	extZip   = "zip"
	extTarGz = "tar.gz"
)

// osNames folds host OS identifiers into release OS names.
var osNames = map[string]string{
	"darwin":  "darwin",
	"linux":   "linux",
	"windows": "windows",
}

// archNames folds host architecture identifiers, including the
// uname-style aliases, into release architecture names.
var archNames = map[string]string{
	"amd64":   "amd64",
	"x86_64":  "amd64",
	"x64":     "amd64",
	"arm64":   "arm64",
	"aarch64": "arm64",
}

// Resolve maps raw OS/architecture identifiers to the release naming
// convention. Either axis missing from the tables yields UnsupportedError.
// No side effects.
func Resolve(rawOS, rawArch string) (Triple, error) {
	osName, osKnown := osNames[strings.ToLower(strings.TrimSpace(rawOS))]
	archName, archKnown := archNames[strings.ToLower(strings.TrimSpace(rawArch))]

	if !osKnown || !archKnown {
		return Triple{}, &UnsupportedError{OS: rawOS, Arch: rawArch}
	}

	ext := extTarGz
	if osName == "windows" {
		ext = extZip
	}

	return Triple{OS: osName, Arch: archName, Ext: ext}, nil
}

// Current resolves the platform of the running process.
func Current() (Triple, error) {
	return Resolve(runtime.GOOS, runtime.GOARCH)
}

// ArchiveName returns the release archive filename for this platform.
// Archive names carry no version so the same name works under any
// versioned release directory.
func (t Triple) ArchiveName() string {
	return fmt.Sprintf("%s_cli_%s_%s.%s", baseBinaryName, t.OS, t.Arch, t.Ext)
}

// BinaryName returns the executable filename shipped for this platform.
func (t Triple) BinaryName() string {
	if t.OS == "windows" {
		return baseBinaryName + ".exe"
	}

	return baseBinaryName
}

// IsZip reports whether the platform's archives are zip rather than gzip-tar.
func (t Triple) IsZip() bool {
	return t.Ext == extZip
}
