// Package dashboard turns the report store into a browsable web view.
//
// The Generator scans the project registry and the report tree and
// writes three static JSON files (projects.json, index.json,
// dashboard.json) that the frontend reads directly. The Server serves
// those files plus the raw markdown reports, and exposes a small JSON
// API for project CRUD; every mutation persists through the registry
// and regenerates the static data.
package dashboard
