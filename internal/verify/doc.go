// Package verify checks downloaded release archives against the published
// SHA-256 checksum manifest. Verification gates every install step: nothing
// is extracted, marked executable, or recorded as installed before the
// digest matches.
package verify
