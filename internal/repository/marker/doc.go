// Package marker persists which Cerebrium CLI version was last installed
// successfully. Absence of the marker means "not installed"; the marker is
// only ever written after a fully verified install.
package marker
