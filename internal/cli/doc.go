// Package cli wires together the Cobra command tree for the devbots binary.
//
// It defines the root command and all subcommands (one per bot, plus run,
// projects, dashboard, config, models, cache, version), binds flags, reads
// configuration, invokes the bots, and returns deterministic exit codes for
// scripting.
package cli
