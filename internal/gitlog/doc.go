// Package gitlog reads a bounded window of commit history from a git
// repository and turns it into a compact, deterministic text digest
// suitable for a language-model prompt.
//
// The pipeline has four sequential stages: [Read] pulls commits from the
// backend and detects truncation, [Filter] drops noise (auto-merge
// commits, known automation authors, duplicate subjects), [GroupCommits]
// partitions the survivors into a bounded sequence of labeled groups, and
// [Render] produces the final text block. Only Read performs I/O; the
// other stages are pure functions over immutable inputs and never fail.
package gitlog
