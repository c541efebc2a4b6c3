package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cerebriumai/cerebrium-launcher/internal/platform"
)

var testTriple = platform.Triple{OS: "linux", Arch: "amd64", Ext: "tar.gz"}

// TestFetcher_Fetch serves a fake release directory and checks both artifacts
// arrive from the expected versioned paths.
func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	manifest := "abc123  cerebrium_cli_linux_amd64.tar.gz\n"
	archive := []byte("fake-archive-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2.1.4/checksums.txt":
			_, _ = w.Write([]byte(manifest))
		case "/v2.1.4/cerebrium_cli_linux_amd64.tar.gz":
			_, _ = w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, time.Second)
	ctx := context.Background()

	gotManifest, err := fetcher.FetchManifest(ctx, "2.1.4")
	require.NoError(t, err)
	require.Equal(t, manifest, string(gotManifest))

	gotArchive, err := fetcher.FetchArchive(ctx, "2.1.4", testTriple)
	require.NoError(t, err)
	require.Equal(t, archive, gotArchive)
}

// TestFetcher_UserAgent checks requests identify the launcher.
func TestFetcher_UserAgent(t *testing.T) {
	t.Parallel()

	var userAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := NewFetcher(server.URL, time.Second).FetchManifest(context.Background(), "2.1.4")
	require.NoError(t, err)
	require.Contains(t, userAgent, "cerebrium-launcher/")
}

// TestFetcher_NotFound maps a missing artifact to ErrUnexpectedStatus
// with the URL in the message.
func TestFetcher_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewFetcher(server.URL, time.Second).FetchArchive(context.Background(), "9.9.9", testTriple)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.ErrorContains(t, err, "/v9.9.9/cerebrium_cli_linux_amd64.tar.gz")
}

// TestFetcher_Unreachable surfaces transport failures.
func TestFetcher_Unreachable(t *testing.T) {
	t.Parallel()

	// Reserved TEST-NET-1 address, nothing listens there.
	fetcher := NewFetcher("http://192.0.2.1:9", 100*time.Millisecond)

	_, err := fetcher.FetchManifest(context.Background(), "2.1.4")
	require.Error(t, err)
}

// TestFetcher_ContextCancellation aborts an in-flight download.
func TestFetcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := NewFetcher(server.URL, time.Minute).FetchManifest(ctx, "2.1.4")
	require.Error(t, err)
}
