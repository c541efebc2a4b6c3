package install

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/cerebriumai/cerebrium-launcher/internal/platform"
)

// ErrArtifactNotFound is returned when the release archive holds no entry
// for the expected executable. The install directory is left untouched.
var ErrArtifactNotFound = errors.New("executable not found in release archive")

// binaryFileMode carries the owner-executable bit required on non-Windows
// targets; go-update applies it to the freshly written file.
const binaryFileMode os.FileMode = 0o755

// Install extracts the expected executable from the downloaded archive and
// applies it to destDir under the platform binary name. The archive format
// follows the platform extension: zip on windows, gzip-compressed tar
// elsewhere. The apply itself is write-to-temp-then-rename, so a failure
// never leaves a runnable-but-corrupt binary at the final path.
//
// The archive bytes must already be checksum-verified by the caller.
func Install(archive []byte, triple platform.Triple, destDir string) (string, error) {
	binaryName := triple.BinaryName()

	entry, err := findExecutable(archive, triple, binaryName)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create install directory: %w", err)
	}

	finalPath := filepath.Join(destDir, binaryName)

	options := goupdate.Options{
		TargetPath: finalPath,
		TargetMode: binaryFileMode,
	}

	if err = goupdate.Apply(entry, options); err != nil {
		return "", fmt.Errorf("apply %s: %w", finalPath, err)
	}

	// go-update keeps the previous binary as a .old backup during the swap.
	oldPath := finalPath + ".old"
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return finalPath, nil
}

// findExecutable scans archive entries in order and returns a reader over the
// first regular entry whose base name matches the expected executable.
func findExecutable(archive []byte, triple platform.Triple, binaryName string) (io.Reader, error) {
	if triple.IsZip() {
		return findInZip(archive, binaryName)
	}

	return findInTarGz(archive, binaryName)
}

func findInZip(archive []byte, binaryName string) (io.Reader, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		if filepath.Base(entry.Name) != binaryName {
			continue
		}

		contents, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}

		// The whole archive is already in memory; buffering the entry keeps
		// the reader valid past this function.
		data, err := io.ReadAll(contents)

		_ = contents.Close()

		if err != nil {
			return nil, fmt.Errorf("read zip entry %s: %w", entry.Name, err)
		}

		return bytes.NewReader(data), nil
	}

	return nil, fmt.Errorf("%s: %w", binaryName, ErrArtifactNotFound)
}

func findInTarGz(archive []byte, binaryName string) (io.Reader, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open gzip archive: %w", err)
	}

	defer func() {
		_ = gzipReader.Close()
	}()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", binaryName, ErrArtifactNotFound)
		}

		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		if filepath.Base(header.Name) != binaryName {
			continue
		}

		data, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, fmt.Errorf("read tar entry %s: %w", header.Name, err)
		}

		return bytes.NewReader(data), nil
	}
}
