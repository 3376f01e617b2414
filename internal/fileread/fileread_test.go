package fileread

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noteTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func writeNote(t *testing.T, fs afero.Fs, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func TestReadMarkdownDirNewestFirst(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "notes/old.md", "old words here", noteTime.Add(-48*time.Hour))
	writeNote(t, fs, "notes/mid.md", "middle", noteTime.Add(-24*time.Hour))
	writeNote(t, fs, "notes/new.md", "newest note", noteTime)

	res := ReadMarkdownDir(fs, "notes", ReadOptions{})
	require.Len(t, res.Entries, 3)
	assert.Equal(t, 3, res.TotalFiles)
	assert.Equal(t, "new.md", res.Entries[0].Filename)
	assert.Equal(t, "mid.md", res.Entries[1].Filename)
	assert.Equal(t, "old.md", res.Entries[2].Filename)
	assert.Empty(t, res.Errors)
}

func TestReadMarkdownDirRecursive(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "notes/2026/03/daily.md", "nested", noteTime)
	writeNote(t, fs, "notes/top.md", "top", noteTime.Add(-time.Hour))

	res := ReadMarkdownDir(fs, "notes", ReadOptions{})
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "daily.md", res.Entries[0].Filename)
}

func TestReadMarkdownDirSkipsNonMarkdown(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "notes/keep.md", "keep", noteTime)
	writeNote(t, fs, "notes/skip.txt", "skip", noteTime)
	writeNote(t, fs, "notes/skip.csv", "a,b", noteTime)

	res := ReadMarkdownDir(fs, "notes", ReadOptions{})
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 1, res.TotalFiles)
}

func TestReadMarkdownDirMaxFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i := 0; i < 5; i++ {
		writeNote(t, fs, fmt.Sprintf("notes/n%d.md", i), "text", noteTime.Add(-time.Duration(i)*time.Hour))
	}

	res := ReadMarkdownDir(fs, "notes", ReadOptions{MaxFiles: 2})
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, 5, res.TotalFiles, "total counts files beyond the cap")
	assert.Equal(t, "n0.md", res.Entries[0].Filename)
}

func TestReadMarkdownDirDateBounds(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "notes/early.md", "early", time.Date(2026, time.March, 1, 23, 0, 0, 0, time.UTC))
	writeNote(t, fs, "notes/inside.md", "inside", time.Date(2026, time.March, 5, 1, 0, 0, 0, time.UTC))
	writeNote(t, fs, "notes/late.md", "late", time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC))

	res := ReadMarkdownDir(fs, "notes", ReadOptions{
		Since: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC),
	})
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "inside.md", res.Entries[0].Filename)
	assert.Equal(t, 3, res.TotalFiles)
}

func TestReadMarkdownDirBoundsIncludeWholeDay(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Modified late on the Since day itself: still included, the bound
	// compares dates, not instants.
	writeNote(t, fs, "notes/sameday.md", "x", time.Date(2026, time.March, 2, 23, 59, 0, 0, time.UTC))

	res := ReadMarkdownDir(fs, "notes", ReadOptions{
		Since: time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC),
	})
	assert.Len(t, res.Entries, 1)
}

func TestReadMarkdownDirMissing(t *testing.T) {
	fs := afero.NewMemMapFs()

	res := ReadMarkdownDir(fs, "absent", ReadOptions{})
	assert.True(t, res.IsEmpty())
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "does not exist")
}

func TestReadMarkdownDirNotADirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "plain.md", "x", noteTime)

	res := ReadMarkdownDir(fs, "plain.md", ReadOptions{})
	assert.True(t, res.IsEmpty())
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "not a directory")
}

func TestReadTaskFileSingle(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "todo.txt", "- [ ] ship it\n- [x] write tests", noteTime)

	res := ReadTaskFile(fs, "todo.txt")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 1, res.TotalFiles)
	assert.Contains(t, res.Entries[0].Content, "ship it")
}

func TestReadTaskFileDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "tasks/a.md", "- [ ] one", noteTime)
	writeNote(t, fs, "tasks/b.md", "- [ ] two", noteTime.Add(-time.Hour))

	res := ReadTaskFile(fs, "tasks")
	assert.Len(t, res.Entries, 2)
}

func TestReadTaskFileMissing(t *testing.T) {
	fs := afero.NewMemMapFs()

	res := ReadTaskFile(fs, "absent.md")
	assert.True(t, res.IsEmpty())
	require.NotEmpty(t, res.Errors)
}

func TestReadHabitFileCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	var b strings.Builder
	b.WriteString("date,run,read\n")
	for i := 1; i <= 35; i++ {
		fmt.Fprintf(&b, "2026-01-%02d,yes,%dmin\n", i%28+1, i)
	}
	writeNote(t, fs, "habits.csv", b.String(), noteTime)

	res := ReadHabitFile(fs, "habits.csv")
	require.Len(t, res.Entries, 1)

	content := res.Entries[0].Content
	assert.Contains(t, content, "Habits tracked: run, read")
	assert.Contains(t, content, "Total days logged: 35")
	assert.Contains(t, content, "… 5 earlier rows omitted")
	assert.Contains(t, content, "read: 35min", "last row kept")
	assert.NotContains(t, content, "read: 5min", "early rows dropped")
}

func TestReadHabitFileCSVShort(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "habits.csv", "date,run\n2026-01-01,yes\n2026-01-02,\n", noteTime)

	res := ReadHabitFile(fs, "habits.csv")
	require.Len(t, res.Entries, 1)

	content := res.Entries[0].Content
	assert.NotContains(t, content, "omitted")
	assert.Contains(t, content, "date: 2026-01-01 | run: yes")
	assert.Contains(t, content, "\n  date: 2026-01-02", "empty habit values dropped from the row line")
}

func TestReadHabitFileCSVEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "habits.csv", "date,run\n", noteTime)

	res := ReadHabitFile(fs, "habits.csv")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "No habit data found.", res.Entries[0].Content)
}

func TestReadHabitFileMarkdownPassthrough(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeNote(t, fs, "habits.md", "# Habits\n\n- ran 5k", noteTime)

	res := ReadHabitFile(fs, "habits.md")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "# Habits\n\n- ran 5k", res.Entries[0].Content)
}

func TestReadHabitFileMissing(t *testing.T) {
	fs := afero.NewMemMapFs()

	res := ReadHabitFile(fs, "absent.csv")
	assert.True(t, res.IsEmpty())
	require.NotEmpty(t, res.Errors)
}

func TestEntryWordCount(t *testing.T) {
	e := newEntry("a.md", noteTime, "three little words")
	assert.Equal(t, 3, e.Words)
}

func TestResultHelpers(t *testing.T) {
	res := Result{Entries: []Entry{
		newEntry("a.md", noteTime, "one two"),
		newEntry("b.md", noteTime.Add(-time.Hour), "three"),
	}}

	assert.Equal(t, 3, res.TotalWords())
	assert.False(t, res.IsEmpty())

	start, end, ok := res.DateRange()
	require.True(t, ok)
	assert.Equal(t, noteTime.Add(-time.Hour), start)
	assert.Equal(t, noteTime, end)

	_, _, ok = Result{}.DateRange()
	assert.False(t, ok)
}
