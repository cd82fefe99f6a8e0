// Package preflight provides readiness checks for the filesystem paths and
// helper binaries vidmerge depends on.
//
// The merge command runs RunAll before touching any recording so a missing
// ffmpeg or an unreadable data directory fails fast instead of mid-run. The
// check command renders the same results for the operator.
package preflight
