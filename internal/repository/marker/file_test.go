package marker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Read returns ErrNotFound for a missing marker.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), Filename))

	_, err := repo.Read(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_BlankMarker verifies a blank marker reads as not found.
func TestFileRepository_BlankMarker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), Filename)
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	_, err := NewFileRepository(path).Read(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_WriteRead_Roundtrip ensures Write followed by Read returns
// the same version, including through a fresh repository instance
// (marker persists across invocations).
func TestFileRepository_WriteRead_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), Filename)

	require.NoError(t, NewFileRepository(path).Write(context.Background(), "2.1.4"))

	got, err := NewFileRepository(path).Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.1.4", got)
}

// TestFileRepository_Overwrite checks a new version replaces the previous one.
func TestFileRepository_Overwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), Filename)
	repo := NewFileRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "2.1.3"))
	require.NoError(t, repo.Write(ctx, "2.1.4"))

	got, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "2.1.4", got)

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestFileRepository_EmptyVersion rejects writing a blank version.
func TestFileRepository_EmptyVersion(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), Filename))
	require.Error(t, repo.Write(context.Background(), "   "))
}

// TestFileRepository_CreatesDirectory ensures Write creates the install dir.
func TestFileRepository_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "bin", Filename)
	require.NoError(t, NewFileRepository(path).Write(context.Background(), "2.1.4"))

	got, err := NewFileRepository(path).Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.1.4", got)
}
