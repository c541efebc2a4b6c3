package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/cerebriumai/cerebrium-launcher/internal/logger"
	"github.com/cerebriumai/cerebrium-launcher/internal/platform"
	"github.com/cerebriumai/cerebrium-launcher/internal/version"
)

// ManifestFilename is the checksum manifest published with every release.
const ManifestFilename = "checksums.txt"

// ErrUnexpectedStatus is returned when the release host answers with a
// non-success status code.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// Fetcher retrieves release artifacts from a versioned URL layout:
// {base}/v{version}/{artifact}. Artifacts are immutable once published,
// so no retry loop is attempted; failures surface to the caller.
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher creates a fetcher against the provided release host prefix.
func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// FetchManifest downloads the checksum manifest for the given release version.
func (f *Fetcher) FetchManifest(ctx context.Context, releaseVersion string) ([]byte, error) {
	return f.fetch(ctx, releaseVersion, ManifestFilename)
}

// FetchArchive downloads the platform-specific release archive.
func (f *Fetcher) FetchArchive(ctx context.Context, releaseVersion string, triple platform.Triple) ([]byte, error) {
	return f.fetch(ctx, releaseVersion, triple.ArchiveName())
}

// fetch performs a single blocking GET of one artifact under the
// version directory.
func (f *Fetcher) fetch(ctx context.Context, releaseVersion, artifact string) ([]byte, error) {
	finalURL, err := f.artifactURL(releaseVersion, artifact)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Fetching release artifact", "url", finalURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", finalURL, err)
	}

	req.Header.Set("User-Agent", "cerebrium-launcher/"+version.Short())

	response, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", finalURL, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: %s: %w", finalURL, response.Status, ErrUnexpectedStatus)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", finalURL, err)
	}

	logger.DebugKV(ctx, "Fetched release artifact", "url", finalURL, "bytes", len(data))

	return data, nil
}

// artifactURL composes {base}/v{version}/{artifact}, normalizing
// duplicate slashes in the base path.
func (f *Fetcher) artifactURL(releaseVersion, artifact string) (string, error) {
	parsed, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse release host URL: %w", err)
	}

	parsed.Path = path.Join(parsed.Path, "v"+releaseVersion, artifact)

	return parsed.String(), nil
}
