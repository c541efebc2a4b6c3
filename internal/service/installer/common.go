package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
	ps "github.com/mitchellh/go-ps"

	"github.com/cerebriumai/cerebrium-launcher/internal/logger"
)

const (
	// LockFilename is the advisory lock taken for the whole install sequence.
	LockFilename = ".install.lock"
	// InstallMarkerFilename holds the PID of an in-flight install.
	InstallMarkerFilename = ".install-in-progress"

	// installMarkerLifetime caps how long an in-progress marker is trusted.
	// A marker older than this belongs to an install that died without
	// cleaning up.
	installMarkerLifetime = 10 * time.Minute

	// versionProbeTimeout bounds how long we wait for the installed binary
	// to report its version.
	versionProbeTimeout = 10 * time.Second
)

var (
	errInstallAlreadyRunning = errors.New("another install is already running")
	errNoVersionInOutput     = errors.New("no version found in command output")
)

// IsInstallRunningNow reports whether another process is currently installing
// into dir. Stale markers (expired or owned by a dead process) are removed.
func IsInstallRunningNow(ctx context.Context, dir string) bool {
	markerPath := filepath.Join(dir, InstallMarkerFilename)

	info, err := os.Stat(markerPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warnf(ctx, "Unable to check install marker: %v", err)
		}

		return false
	}

	if time.Since(info.ModTime()) > installMarkerLifetime {
		logger.Warn(ctx, "Removing expired install marker")
		removeInstallMarker(dir)

		return false
	}

	contents, err := os.ReadFile(markerPath)
	if err != nil {
		// Unreadable but fresh: assume an install really is running.
		return true
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		return true
	}

	if !isProcessAlive(pid) {
		logger.WarnKV(ctx, "Removing install marker left by a dead process", "pid", pid)
		removeInstallMarker(dir)

		return false
	}

	return true
}

func writeInstallMarker(dir string) error {
	markerPath := filepath.Join(dir, InstallMarkerFilename)

	if err := os.WriteFile(markerPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("write install marker: %w", err)
	}

	return nil
}

func removeInstallMarker(dir string) {
	_ = os.Remove(filepath.Join(dir, InstallMarkerFilename))
}

func isProcessAlive(pid int) bool {
	process, err := ps.FindProcess(pid)

	return err == nil && process != nil
}

// probeInstalledVersion asks the installed binary for its version. Returns an
// empty string when the binary cannot be executed or its output carries no
// recognizable version: both mean the install state is unknown, not broken.
func probeInstalledVersion(ctx context.Context, binaryPath string) string {
	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	output, err := exec.CommandContext(probeCtx, binaryPath, "version").Output()
	if err != nil {
		logger.Warnf(ctx, "Unable to probe installed binary version: %v", err)
		return ""
	}

	installed, err := parseVersionFromOutput(string(output))
	if err != nil {
		logger.Warnf(ctx, "Unable to parse installed binary version: %v", err)
		return ""
	}

	return installed
}

// parseVersionFromOutput extracts the first semantic version found in command
// output such as "cerebrium 2.1.4 (commit: abc, built at: ...)".
func parseVersionFromOutput(output string) (string, error) {
	for _, field := range strings.Fields(output) {
		candidate := strings.Trim(field, "(),;")
		candidate = strings.TrimPrefix(candidate, "v")

		// Require a dot so stray integers in the output do not match.
		if !strings.Contains(candidate, ".") {
			continue
		}

		if _, err := goversion.NewVersion(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errNoVersionInOutput
}

// versionsEqual compares two version strings semantically, so "2.1.4" and
// "v2.1.4" are equal. Unparseable input never matches.
func versionsEqual(installed, expected string) bool {
	installedVersion, err := goversion.NewVersion(installed)
	if err != nil {
		return false
	}

	expectedVersion, err := goversion.NewVersion(expected)
	if err != nil {
		return false
	}

	return installedVersion.Equal(expectedVersion)
}
