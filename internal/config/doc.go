// Package config loads and merges devbots configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (DEVBOTS_PROVIDER, DEVBOTS_MODEL, DEVBOTS_DATA_DIR, etc.)
//  3. Config file ($XDG_CONFIG_HOME/devbots/config.json)
//  4. Built-in defaults
//
// Per-bot model overrides come from the environment (GITBOT_MODEL,
// PMBOT_MODEL, ...) and are resolved with [ModelFor].
//
// Use [Load] to obtain a merged [Config] and [Save] to persist one.
package config
