// Package store persists bot reports on an afero filesystem.
//
// Reports live under {root}/{project}/reports/{bot}/: every save writes
// latest.md plus a timestamped copy named 2006-01-02-150405.md, so the
// newest report is always addressable at a stable path while history
// accumulates beside it.
package store
