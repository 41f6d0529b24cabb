// Package preflight provides readiness checks for the filesystem paths and
// the metadata web service that reprise depends on.
//
// The daemon runs RunAll once before entering its refresh loop and refuses
// to start when a check fails; the CLI "reprise status" command renders the
// same results for display.
package preflight
