package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds launcher settings. Every field has a working default:
// the settings file is optional and normally absent.
type Config struct {
	// DownloadBaseURL is the release host prefix the version directory is
	// appended to when building artifact URLs.
	DownloadBaseURL string `yaml:"download_base_url"`
	// InstallDir is the directory holding the installed binary and the
	// version marker. Defaults to ~/.cerebrium/bin.
	InstallDir string `yaml:"install_dir"`
	// Timeout bounds each HTTP retrieval.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for launcher settings,
	// looked up in the user's .cerebrium directory.
	DefaultConfigFilename = "cerebrium-launcher.yaml"

	// DefaultDownloadBaseURL is where release archives and checksum
	// manifests are published.
	DefaultDownloadBaseURL = "https://github.com/CerebriumAI/cerebrium/releases/download"

	// DefaultTimeout is the default duration for a single artifact download.
	DefaultTimeout = 5 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// userDirName is the per-user directory everything lives under.
	userDirName = ".cerebrium"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// DefaultConfigPath returns the default settings file location
// (~/.cerebrium/cerebrium-launcher.yaml).
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, userDirName, DefaultConfigFilename), nil
}

// DefaultInstallDir returns the fixed per-user install directory
// (~/.cerebrium/bin).
func DefaultInstallDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, userDirName, "bin"), nil
}

// Load reads configuration from the provided path and validates essential
// fields. An empty path means the default location; a missing file is not an
// error and yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}

		path = defaultPath
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Settings are optional.
	case err != nil:
		return nil, fmt.Errorf("read settings: %w", err)
	default:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required formatting
// and fills in defaults for unset fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DownloadBaseURL == "" {
		cfg.DownloadBaseURL = DefaultDownloadBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.DownloadBaseURL); err != nil {
		return fmt.Errorf("invalid download base URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.InstallDir == "" {
		installDir, err := DefaultInstallDir()
		if err != nil {
			return err
		}

		cfg.InstallDir = installDir
	}

	return nil
}
