// Package install extracts the single expected executable from a verified
// release archive and swaps it into the install directory atomically.
package install
