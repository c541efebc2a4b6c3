// Package version carries build metadata and the expected Cerebrium CLI
// release. The launcher and the packaging step both read Version from here so
// the two can never disagree about which release to fetch.
package version
