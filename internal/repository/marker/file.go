package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Repository defines persistence operations for the installed-version marker.
type Repository interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, version string) error
}

// Filename is the plain-text marker stored next to the installed binary.
const Filename = "version.txt"

// filePermissions is used for the marker file itself.
const filePermissions = 0o644

var (
	// ErrNotFound is returned when no marker has been written yet.
	ErrNotFound = errors.New("version marker not found")
	// errEmptyVersion is returned when an empty version is written.
	errEmptyVersion = errors.New("version must not be empty")
)

// FileRepository persists the installed version as a single line of text.
// Writes go through a temp file in the same directory followed by a rename,
// so a torn write can never be read back as a valid version.
type FileRepository struct {
	// path is the filesystem location of the marker file.
	path string
	// mu protects concurrent access to the marker file.
	mu sync.Mutex
}

// NewFileRepository creates a repository storing the marker at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Read returns the recorded version, or ErrNotFound if the marker is absent
// or blank.
func (r *FileRepository) Read(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("read version marker: %w", err)
	}

	version := strings.TrimSpace(string(contents))
	if version == "" {
		return "", ErrNotFound
	}

	return version, nil
}

// Write persists the version atomically, creating the directory if needed.
func (r *FileRepository) Write(_ context.Context, version string) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return errEmptyVersion
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".version-*")
	if err != nil {
		return fmt.Errorf("create marker temp file: %w", err)
	}

	tmpName := tmp.Name()

	_, err = tmp.WriteString(version + "\n")
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Chmod(tmpName, filePermissions)
	}

	if err == nil {
		err = os.Rename(tmpName, r.path)
	}

	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write version marker: %w", err)
	}

	return nil
}
