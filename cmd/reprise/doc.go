// Package main hosts the reprise CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the refresh daemon in the foreground,
// fires one-off refresh passes, previews refresh worklists, inspects
// invocation history, seeds the local library, and scaffolds configuration.
// It centralizes configuration resolution, database wiring, and logger setup
// so subcommands can focus on user experience instead of plumbing.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
