// Package cli implements nyxfs, a command line client that opens the
// NyxOS store directly. Each invocation opens the filesystem, runs one
// operation and closes it again.
package cli
