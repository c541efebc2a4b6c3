// Package platform maps host OS/architecture identifiers to the naming
// convention of the published release archives.
package platform
