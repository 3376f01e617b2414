package fileread

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultMaxFiles caps how many files a directory read returns.
const DefaultMaxFiles = 50

// Entry is one file read from disk.
type Entry struct {
	Path     string
	Filename string
	Modified time.Time
	Content  string
	Words    int
}

// Result collects the entries from one read operation. Errors holds
// per-file problems; they do not abort the read.
type Result struct {
	Entries    []Entry
	TotalFiles int
	Errors     []string
}

// TotalWords sums the word counts of all entries.
func (r Result) TotalWords() int {
	total := 0
	for _, e := range r.Entries {
		total += e.Words
	}
	return total
}

// IsEmpty reports whether nothing was read.
func (r Result) IsEmpty() bool {
	return len(r.Entries) == 0
}

// DateRange returns the oldest and newest modification times among the
// entries. ok is false when there are no entries.
func (r Result) DateRange() (start, end time.Time, ok bool) {
	if len(r.Entries) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = r.Entries[0].Modified, r.Entries[0].Modified
	for _, e := range r.Entries[1:] {
		if e.Modified.Before(start) {
			start = e.Modified
		}
		if e.Modified.After(end) {
			end = e.Modified
		}
	}
	return start, end, true
}

// ReadOptions bounds a directory read. Zero Since/Until mean unbounded;
// the bounds compare against the file's modification date, not time.
type ReadOptions struct {
	Since    time.Time
	Until    time.Time
	MaxFiles int
}

func newEntry(path string, modified time.Time, content string) Entry {
	return Entry{
		Path:     path,
		Filename: filepath.Base(path),
		Modified: modified,
		Content:  content,
		Words:    len(strings.Fields(content)),
	}
}

// ReadMarkdownDir reads .md files under dir recursively, newest first.
// TotalFiles counts every markdown file found, including ones the date
// bounds or the MaxFiles cap excluded.
func ReadMarkdownDir(fs afero.Fs, dir string, opts ReadOptions) Result {
	var res Result

	info, err := fs.Stat(dir)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("directory does not exist: %s", dir))
		return res
	}
	if !info.IsDir() {
		res.Errors = append(res.Errors, fmt.Sprintf("path is not a directory: %s", dir))
		return res
	}

	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	type candidate struct {
		path string
		info os.FileInfo
	}
	var found []candidate
	walkErr := afero.Walk(fs, dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("could not read %s: %v", filepath.Base(path), err))
			return nil
		}
		if fi.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		found = append(found, candidate{path: path, info: fi})
		return nil
	})
	if walkErr != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("scanning %s: %v", dir, walkErr))
		return res
	}

	sort.Slice(found, func(i, j int) bool {
		mi, mj := found[i].info.ModTime(), found[j].info.ModTime()
		if mi.Equal(mj) {
			return found[i].path < found[j].path
		}
		return mi.After(mj)
	})
	res.TotalFiles = len(found)

	for _, c := range found {
		if len(res.Entries) >= maxFiles {
			break
		}
		mtime := c.info.ModTime()
		if !opts.Since.IsZero() && dayOf(mtime).Before(dayOf(opts.Since)) {
			continue
		}
		if !opts.Until.IsZero() && dayOf(mtime).After(dayOf(opts.Until)) {
			continue
		}
		data, err := afero.ReadFile(fs, c.path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("could not read %s: %v", filepath.Base(c.path), err))
			continue
		}
		res.Entries = append(res.Entries, newEntry(c.path, mtime, string(data)))
	}

	return res
}

// ReadTaskFile reads a task list. A directory reads as markdown notes;
// a single file is returned as one entry regardless of extension.
func ReadTaskFile(fs afero.Fs, path string) Result {
	if ok, _ := afero.DirExists(fs, path); ok {
		return ReadMarkdownDir(fs, path, ReadOptions{})
	}

	var res Result
	info, err := fs.Stat(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("task file does not exist: %s", path))
		return res
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("could not read %s: %v", path, err))
		return res
	}
	res.Entries = append(res.Entries, newEntry(path, info.ModTime(), string(data)))
	res.TotalFiles = 1
	return res
}

// ReadHabitFile reads a habit log. CSV files are rendered to readable
// text for the LLM; anything else passes through as-is.
func ReadHabitFile(fs afero.Fs, path string) Result {
	var res Result
	info, err := fs.Stat(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("habit file does not exist: %s", path))
		return res
	}

	var content string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		content = formatHabitCSV(fs, path)
	} else {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("could not read %s: %v", path, err))
			return res
		}
		content = string(data)
	}

	res.Entries = append(res.Entries, newEntry(path, info.ModTime(), content))
	res.TotalFiles = 1
	return res
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
