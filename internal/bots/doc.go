// Package bots implements the devbots themselves: each bot curates one
// data source (commit history, tracker issues, notes, tasks, habits),
// hands it to a Summarizer, and returns a Result with a markdown
// report.
//
// Bots never abort a run: collaborator failures degrade to a Result
// with a failed or error status so the orchestrator can keep going and
// report per-bot outcomes. When a project name is set the report is
// also persisted through the store.
package bots
