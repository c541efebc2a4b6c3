// Package launcher is the run path of the shim: it reconciles the installed
// Cerebrium CLI with the expected release, then executes it with the original
// arguments and relays its exit code.
package launcher
