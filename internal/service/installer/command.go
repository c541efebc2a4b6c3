package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cerebriumai/cerebrium-launcher/internal/config"
	"github.com/cerebriumai/cerebrium-launcher/internal/flock"
	"github.com/cerebriumai/cerebrium-launcher/internal/install"
	"github.com/cerebriumai/cerebrium-launcher/internal/logger"
	"github.com/cerebriumai/cerebrium-launcher/internal/platform"
	"github.com/cerebriumai/cerebrium-launcher/internal/release"
	"github.com/cerebriumai/cerebrium-launcher/internal/repository/marker"
	"github.com/cerebriumai/cerebrium-launcher/internal/verify"
	"github.com/cerebriumai/cerebrium-launcher/internal/version"
)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Force reinstalls even when the installed version is current.
	Force bool
}

// Run executes the install pipeline and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "installer")

	svc, err := NewFromConfigPath(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = svc.Ensure(ctx, opts.Force); err != nil {
		logger.ErrorKV(ctx, "Install failed", "error", err)
		return err
	}

	return nil
}

// State describes how the installed binary relates to the expected release.
type State int

const (
	// StateMissing means no binary is present at the install path.
	StateMissing State = iota
	// StateStale means a binary is present but its version is unknown or
	// differs from the expected release.
	StateStale
	// StateCurrent means the installed binary matches the expected release.
	StateCurrent
)

func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateStale:
		return "stale"
	case StateCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// Status is the result of reconciling the install directory against the
// expected release.
type Status struct {
	State            State
	InstalledVersion string // Empty when no version could be determined.
	ExpectedVersion  string
	BinaryPath       string
}

// Service reconciles the local install directory with the expected release:
// it decides whether the installed binary is current and, when it is not,
// runs the fetch-verify-install sequence.
type Service struct {
	cfg     *config.Config
	triple  platform.Triple
	fetcher *release.Fetcher
	markers marker.Repository
}

// NewFromConfigPath loads settings and builds a Service for the current host.
func NewFromConfigPath(configPath string) (*Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return New(cfg)
}

// New builds a Service for the current host platform.
func New(cfg *config.Config) (*Service, error) {
	triple, err := platform.Current()
	if err != nil {
		return nil, err
	}

	return newService(cfg, triple), nil
}

// newService wires the service for an explicit platform triple.
func newService(cfg *config.Config, triple platform.Triple) *Service {
	return &Service{
		cfg:     cfg,
		triple:  triple,
		fetcher: release.NewFetcher(cfg.DownloadBaseURL, cfg.Timeout),
		markers: marker.NewFileRepository(filepath.Join(cfg.InstallDir, marker.Filename)),
	}
}

// BinaryPath returns where the managed binary is installed for this host.
func (s *Service) BinaryPath() string {
	return filepath.Join(s.cfg.InstallDir, s.triple.BinaryName())
}

// Check reconciles the install directory against the expected release without
// touching the network. A marker read failure degrades to "unknown installed
// version" (probing the binary itself when possible), never to a hard error:
// the worst outcome is an unnecessary reinstall.
func (s *Service) Check(ctx context.Context) (*Status, error) {
	status := &Status{
		ExpectedVersion: version.Short(),
		BinaryPath:      s.BinaryPath(),
	}

	if _, err := os.Stat(status.BinaryPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat installed binary: %w", err)
		}

		status.State = StateMissing

		return status, nil
	}

	installed, err := s.markers.Read(ctx)
	if err != nil {
		if !errors.Is(err, marker.ErrNotFound) {
			logger.Warnf(ctx, "Unable to read version marker: %v", err)
		}

		// The marker is gone but a binary is present: ask the binary itself.
		installed = probeInstalledVersion(ctx, status.BinaryPath)
	}

	status.InstalledVersion = installed

	if versionsEqual(installed, status.ExpectedVersion) {
		status.State = StateCurrent
	} else {
		status.State = StateStale
	}

	return status, nil
}

// Ensure brings the install directory up to the expected release. When the
// installed binary is already current (and force is unset) it returns without
// any network traffic. The fetch-verify-install sequence runs under an
// exclusive lock on the install directory; the state is re-checked after the
// lock is acquired since a concurrent invocation may have finished the same
// install while we waited.
func (s *Service) Ensure(ctx context.Context, force bool) error {
	if !force {
		status, err := s.Check(ctx)
		if err != nil {
			return err
		}

		if status.State == StateCurrent {
			logger.DebugKV(ctx, "Installed binary is current, skipping download",
				"version", status.InstalledVersion)

			return nil
		}

		logger.InfoKV(ctx, "Install required",
			"state", status.State.String(),
			"installed", status.InstalledVersion,
			"expected", status.ExpectedVersion)
	}

	if err := os.MkdirAll(s.cfg.InstallDir, 0o755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}

	// Best effort: platforms without a lock primitive fall through to the
	// in-progress marker check below.
	releaseLock, err := flock.Acquire(filepath.Join(s.cfg.InstallDir, LockFilename))
	if err != nil {
		logger.Warnf(ctx, "Unable to lock install directory: %v", err)
	} else {
		defer func() {
			_ = releaseLock()
		}()
	}

	if IsInstallRunningNow(ctx, s.cfg.InstallDir) {
		return errInstallAlreadyRunning
	}

	if err = writeInstallMarker(s.cfg.InstallDir); err != nil {
		return err
	}

	defer removeInstallMarker(s.cfg.InstallDir)

	if !force {
		status, err := s.Check(ctx)
		if err != nil {
			return err
		}

		if status.State == StateCurrent {
			logger.Info(ctx, "Another invocation completed the install first")
			return nil
		}
	}

	return s.install(ctx)
}

// install runs the fetch-verify-install sequence. Any failure aborts the
// whole attempt: nothing is written to the final install path and the version
// marker keeps its previous value.
func (s *Service) install(ctx context.Context) error {
	expected := version.Short()
	archiveName := s.triple.ArchiveName()

	logger.InfoKV(ctx, "Downloading checksum manifest", "version", expected)

	manifest, err := s.fetcher.FetchManifest(ctx, expected)
	if err != nil {
		return fmt.Errorf("download checksum manifest: %w", err)
	}

	logger.InfoKV(ctx, "Downloading release archive",
		"version", expected, "artifact", archiveName)

	archive, err := s.fetcher.FetchArchive(ctx, expected, s.triple)
	if err != nil {
		return fmt.Errorf("download release archive: %w", err)
	}

	logger.InfoKV(ctx, "Verifying archive checksum", "artifact", archiveName)

	if err = verify.Archive(archive, manifest, archiveName); err != nil {
		return fmt.Errorf("verify release archive: %w", err)
	}

	logger.InfoKV(ctx, "Installing binary", "dir", s.cfg.InstallDir)

	binaryPath, err := install.Install(archive, s.triple, s.cfg.InstallDir)
	if err != nil {
		return fmt.Errorf("install binary: %w", err)
	}

	// The marker is written last: its presence asserts a verified install.
	if err = s.markers.Write(ctx, expected); err != nil {
		return fmt.Errorf("record installed version: %w", err)
	}

	logger.InfoKV(ctx, "Installed Cerebrium CLI",
		"version", expected, "path", binaryPath)

	return nil
}

// VerifyRelease re-downloads the manifest and archive for the expected
// release and verifies the checksum without touching the install directory.
func (s *Service) VerifyRelease(ctx context.Context) error {
	expected := version.Short()
	archiveName := s.triple.ArchiveName()

	manifest, err := s.fetcher.FetchManifest(ctx, expected)
	if err != nil {
		return fmt.Errorf("download checksum manifest: %w", err)
	}

	archive, err := s.fetcher.FetchArchive(ctx, expected, s.triple)
	if err != nil {
		return fmt.Errorf("download release archive: %w", err)
	}

	if err = verify.Archive(archive, manifest, archiveName); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Release archive verified",
		"version", expected, "artifact", archiveName)

	return nil
}
