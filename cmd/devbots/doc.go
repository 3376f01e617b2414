// Devbots is a local-first CLI of small agents that report on your projects
// with LLM providers.
//
// Team bots read commit history and issue trackers; personal bots read
// journals, task lists, habit logs, and notes. Each bot prints a markdown
// report and saves it for the dashboard, with deterministic exit codes
// suitable for scripting and cron.
//
// Usage:
//
//	devbots gitbot --repo .               # summarize commit history
//	devbots qabot --repo .                # recommend what to test
//	devbots pmbot --project myapp         # analyze the issue backlog
//	devbots run --project myapp           # run every bot for a project
//	devbots journalbot --dir ~/journal    # summarize journal entries
//	devbots projects add myapp ~/src/app  # register a project
//	devbots dashboard                     # serve the report dashboard
//
// See https://github.com/danieluxury88/BotsTeam for full documentation.
package main
