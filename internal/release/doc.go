// Package release downloads versioned release artifacts — the checksum
// manifest and the platform-specific archive — from the release host.
package release
