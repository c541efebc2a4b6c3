// Package installer reconciles the local Cerebrium CLI install with the
// release this launcher was built for. It decides whether the installed
// binary is missing, stale or current, and when needed runs the full
// download, checksum verification and atomic install sequence under an
// exclusive lock on the install directory.
package installer
