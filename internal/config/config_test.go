package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks default filling and format validations for settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	err := Validate(nil)
	require.Error(t, err)

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultDownloadBaseURL, cfg.DownloadBaseURL)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.NotEmpty(t, cfg.InstallDir)

	// Bad URL.
	cfg = &Config{DownloadBaseURL: "::not-a-url"}
	require.Error(t, Validate(cfg))

	// Explicit values survive validation.
	cfg = &Config{
		DownloadBaseURL: "https://releases.example.com/cerebrium",
		InstallDir:      "/opt/cerebrium/bin",
		Timeout:         30 * time.Second,
	}
	require.NoError(t, Validate(cfg))
	require.Equal(t, "/opt/cerebrium/bin", cfg.InstallDir)
	require.Equal(t, 30*time.Second, cfg.Timeout)
}

// TestLoad_MissingFile ensures an absent settings file yields defaults.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultDownloadBaseURL, cfg.DownloadBaseURL)
}

// TestLoad_MalformedFile ensures a present but invalid file is an error.
func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download_base_url: [nested, list]\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		DownloadBaseURL: "https://releases.example.com/cerebrium",
		InstallDir:      filepath.Join(t.TempDir(), "bin"),
		Timeout:         time.Minute,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.DownloadBaseURL, loaded.DownloadBaseURL)
	require.Equal(t, cfg.InstallDir, loaded.InstallDir)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
}
