// Package registry tracks the projects devbots knows about.
//
// Projects persist as a flat JSON object keyed by name, by default at
// ~/.devbots/projects.json. Each entry records the repository path, the
// scope (team or personal), per-bot input locations, and optional issue
// tracker bindings whose tokens fall back to the environment.
package registry
