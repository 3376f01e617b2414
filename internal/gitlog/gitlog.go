package gitlog

import (
	"strings"
	"time"
)

// Commit is a single commit as read from the backend. Immutable once read.
type Commit struct {
	ID        string // abbreviated hash
	Message   string // full message
	Author    string
	Timestamp time.Time // committer time, UTC
	Files     []string  // changed paths; empty when the backend could not report them
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// ReadResult is the bounded commit window produced by Read.
type ReadResult struct {
	Commits   []Commit // newest first
	Truncated bool     // true when the backend holds more matching commits than the cap
}

// FilterResult holds the commits that survived noise filtering.
type FilterResult struct {
	Commits []Commit // input order preserved
	Removed int
}

// Group is a labeled cluster of commits sharing a grouping key.
type Group struct {
	Label   string
	Commits []Commit
}

// Authors returns the group's unique author identities in first-seen order.
func (g Group) Authors() []string {
	seen := make(map[string]bool, len(g.Commits))
	var authors []string
	for _, c := range g.Commits {
		if !seen[c.Author] {
			seen[c.Author] = true
			authors = append(authors, c.Author)
		}
	}
	return authors
}

// DateRange returns the earliest and latest commit timestamps in the group.
func (g Group) DateRange() (start, end time.Time) {
	if len(g.Commits) == 0 {
		return
	}
	start, end = g.Commits[0].Timestamp, g.Commits[0].Timestamp
	for _, c := range g.Commits[1:] {
		if c.Timestamp.Before(start) {
			start = c.Timestamp
		}
		if c.Timestamp.After(end) {
			end = c.Timestamp
		}
	}
	return start, end
}

// TouchedFiles returns the unique changed paths across the group's commits
// in first-seen order.
func (g Group) TouchedFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, c := range g.Commits {
		for _, f := range c.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}
