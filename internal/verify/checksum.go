package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrManifestEntryMissing is returned when the checksum manifest has no line
// for the expected artifact. A missing entry blocks installation: it can mean
// a compromised or incomplete release.
var ErrManifestEntryMissing = errors.New("checksum manifest entry not found")

// MismatchError reports a digest disagreement between the manifest and the
// downloaded bytes.
type MismatchError struct {
	Artifact string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.Artifact, e.Expected, e.Actual)
}

// digestHexLength is the length of a hex-encoded SHA-256 digest.
const digestHexLength = sha256.Size * 2

// Checksum returns the hex digest recorded in the manifest for the named
// artifact. The manifest is whitespace-delimited `<hex-digest> <filename>`
// lines; blank lines, comments and malformed lines are skipped. The first
// line whose filename field equals the artifact name, or whose base name
// does, wins.
func Checksum(manifest []byte, artifactName string) (string, error) {
	for _, line := range strings.Split(string(manifest), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		digest := fields[0]
		if !isHexDigest(digest) {
			continue
		}

		// sha256sum-style manifests may mark binary mode with a leading `*`.
		candidate := strings.TrimPrefix(fields[len(fields)-1], "*")
		if candidate == artifactName || filepath.Base(candidate) == artifactName {
			return strings.ToLower(digest), nil
		}
	}

	return "", fmt.Errorf("%s: %w", artifactName, ErrManifestEntryMissing)
}

// Archive verifies the downloaded archive bytes against the manifest entry
// for the named artifact. It must pass before any extraction or install step.
func Archive(data, manifest []byte, artifactName string) error {
	expected, err := Checksum(manifest, artifactName)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(data)

	actual := hex.EncodeToString(sum[:])
	if actual != expected {
		return &MismatchError{
			Artifact: artifactName,
			Expected: expected,
			Actual:   actual,
		}
	}

	return nil
}

// isHexDigest reports whether value looks like a hex-encoded SHA-256 digest.
func isHexDigest(value string) bool {
	if len(value) != digestHexLength {
		return false
	}

	for _, ch := range value {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') && (ch < 'A' || ch > 'F') {
			return false
		}
	}

	return true
}
