// Package main hosts the vidmerge CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once per invocation,
// turns flags into merge.Options, and renders results for the terminal:
// progress while merging, tables for discovered sources and past runs, and a
// readiness report for the helper binaries and directories.
//
// Keep this package lean: new behaviour belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
