// Package redact removes secrets from prompt content before it is sent to
// any LLM provider.
//
// Bot prompts are assembled from commit messages, issue descriptions, notes,
// and task lists, any of which can carry pasted credentials. Detection uses
// regex heuristics covering common secret shapes: API keys, JWTs, private
// keys, AWS access key IDs and secret access keys, bearer tokens, and
// provider-specific tokens (Anthropic, OpenAI, GitLab, GitHub, Slack).
//
// Path-based redaction is also supported: files whose paths match configured
// glob patterns have their entire content replaced with [REDACTED] rather
// than being scanned line by line.
package redact
