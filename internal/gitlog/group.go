package gitlog

import (
	"sort"
	"time"
)

// DefaultMaxGroups bounds the group sequence when the caller passes zero.
const DefaultMaxGroups = 10

// spanThresholdDays selects the grouping strategy: windows spanning more
// whole days than this are grouped by calendar day, shorter ones by author.
const spanThresholdDays = 7

// overflowLabel names the synthetic bucket absorbing groups beyond the cap.
const overflowLabel = "Older activity"

const dayKeyFormat = "2006-01-02"

// strategy partitions a commit window into labeled groups. New strategies
// plug in here without changing GroupCommits callers.
type strategy interface {
	partition(commits []Commit) []Group
}

// GroupCommits partitions filtered commits into an ordered, size-bounded
// sequence of labeled groups. Empty input yields an empty sequence. When
// the natural grouping exceeds maxGroups, the first maxGroups groups are
// kept unchanged and the rest merge, in order, into one trailing "Older
// activity" group, so the overflow result has maxGroups+1 entries.
func GroupCommits(commits []Commit, maxGroups int) []Group {
	if len(commits) == 0 {
		return nil
	}
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}
	groups := pickStrategy(commits).partition(commits)
	return capGroups(groups, maxGroups)
}

func pickStrategy(commits []Commit) strategy {
	if spanDays(commits) > spanThresholdDays {
		return byDay{}
	}
	return byAuthor{}
}

// spanDays returns the whole days between the earliest and latest commit.
func spanDays(commits []Commit) int {
	if len(commits) == 0 {
		return 0
	}
	earliest, latest := commits[0].Timestamp, commits[0].Timestamp
	for _, c := range commits[1:] {
		if c.Timestamp.Before(earliest) {
			earliest = c.Timestamp
		}
		if c.Timestamp.After(latest) {
			latest = c.Timestamp
		}
	}
	return int(latest.Sub(earliest) / (24 * time.Hour))
}

// byDay buckets commits per calendar day, most recent day first.
type byDay struct{}

func (byDay) partition(commits []Commit) []Group {
	buckets := make(map[string][]Commit)
	var keys []string
	for _, c := range commits {
		key := c.Timestamp.UTC().Format(dayKeyFormat)
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], c)
	}
	// Lexical descending order of the day key is chronological descending.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		cs := buckets[key]
		groups = append(groups, Group{
			Label:   cs[0].Timestamp.UTC().Format("Monday, January 02 2006"),
			Commits: cs,
		})
	}
	return groups
}

// byAuthor buckets commits per author identity, largest group first; ties
// keep the input order of each author's first commit.
type byAuthor struct{}

func (byAuthor) partition(commits []Commit) []Group {
	buckets := make(map[string][]Commit)
	var order []string
	for _, c := range commits {
		if _, ok := buckets[c.Author]; !ok {
			order = append(order, c.Author)
		}
		buckets[c.Author] = append(buckets[c.Author], c)
	}

	groups := make([]Group, 0, len(order))
	for _, author := range order {
		groups = append(groups, Group{
			Label:   "Author: " + author,
			Commits: buckets[author],
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Commits) > len(groups[j].Commits)
	})
	return groups
}

func capGroups(groups []Group, maxGroups int) []Group {
	if len(groups) <= maxGroups {
		return groups
	}
	kept := groups[:maxGroups:maxGroups]
	var older []Commit
	for _, g := range groups[maxGroups:] {
		older = append(older, g.Commits...)
	}
	return append(kept, Group{Label: overflowLabel, Commits: older})
}
