package gitlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

// commitAt builds a commit offset from baseTime. Negative offsets move
// into the past, so a slice built with decreasing offsets is newest-first,
// matching what Read returns.
func commitAt(id, subject, author string, offset time.Duration) Commit {
	return Commit{
		ID:        id,
		Message:   subject,
		Author:    author,
		Timestamp: baseTime.Add(offset),
	}
}

func TestCommitSubject(t *testing.T) {
	c := Commit{Message: "fix parser\n\nlong explanation of the fix"}
	assert.Equal(t, "fix parser", c.Subject())

	c = Commit{Message: "single line"}
	assert.Equal(t, "single line", c.Subject())

	c = Commit{}
	assert.Equal(t, "", c.Subject())
}

func TestGroupAuthorsFirstSeen(t *testing.T) {
	g := Group{Commits: []Commit{
		commitAt("1", "a", "carol", 0),
		commitAt("2", "b", "alice", -time.Hour),
		commitAt("3", "c", "carol", -2*time.Hour),
		commitAt("4", "d", "bob", -3*time.Hour),
	}}
	assert.Equal(t, []string{"carol", "alice", "bob"}, g.Authors())
}

func TestGroupDateRange(t *testing.T) {
	g := Group{Commits: []Commit{
		commitAt("1", "new", "a", 0),
		commitAt("2", "old", "a", -72*time.Hour),
		commitAt("3", "mid", "a", -24*time.Hour),
	}}
	start, end := g.DateRange()
	assert.Equal(t, baseTime.Add(-72*time.Hour), start)
	assert.Equal(t, baseTime, end)
}

func TestGroupDateRangeEmpty(t *testing.T) {
	var g Group
	start, end := g.DateRange()
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func TestGroupTouchedFiles(t *testing.T) {
	g := Group{Commits: []Commit{
		{ID: "1", Files: []string{"src/a.go", "docs/readme.md"}},
		{ID: "2", Files: []string{"src/a.go", "src/b.go"}},
	}}
	assert.Equal(t, []string{"src/a.go", "docs/readme.md", "src/b.go"}, g.TouchedFiles())
}
