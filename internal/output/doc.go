// Package output formats orchestrator runs for display or machine
// consumption.
//
// Three formats are supported:
//   - text: human-readable terminal summary table (default)
//   - json: the full structured run
//   - markdown: the combined report, identical to what the store persists
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteRun] to handle destination selection (file path or stdout) in one
// call.
package output
