package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	latestName  = "latest.md"
	stampLayout = "2006-01-02-150405"
	defaultRoot = "data"
)

// Store persists bot reports under a data directory.
type Store struct {
	fs   afero.Fs
	root string
	now  func() time.Time
}

// New creates a Store rooted at root (default "data") on the given
// filesystem. A nil fs uses the real OS filesystem.
func New(fs afero.Fs, root string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if root == "" {
		root = defaultRoot
	}
	return &Store{fs: fs, root: root, now: time.Now}
}

// Root returns the data directory the store writes under.
func (s *Store) Root() string { return s.root }

// ReportDir returns the directory holding one bot's reports for a project.
func (s *Store) ReportDir(project, bot string) string {
	return filepath.Join(s.root, project, "reports", bot)
}

// SaveReport writes markdown as both latest.md and a timestamped copy,
// returning the two paths.
func (s *Store) SaveReport(project, bot, markdown string) (latest, stamped string, err error) {
	dir := s.ReportDir(project, bot)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report directory: %w", err)
	}
	latest = filepath.Join(dir, latestName)
	stamped = filepath.Join(dir, s.now().UTC().Format(stampLayout)+".md")
	if err := afero.WriteFile(s.fs, latest, []byte(markdown), 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", latestName, err)
	}
	if err := afero.WriteFile(s.fs, stamped, []byte(markdown), 0o644); err != nil {
		return "", "", fmt.Errorf("writing timestamped report: %w", err)
	}
	return latest, stamped, nil
}

// ReadLatest returns the latest report for a bot, or "" when none exists.
func (s *Store) ReadLatest(project, bot string) (string, error) {
	path := filepath.Join(s.ReportDir(project, bot), latestName)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// ReadReport reads one report file by name.
func (s *Store) ReadReport(project, bot, name string) (string, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.ReportDir(project, bot), name))
	if err != nil {
		return "", fmt.Errorf("reading report: %w", err)
	}
	return string(data), nil
}

// StatReport returns file info for one report file.
func (s *Store) StatReport(project, bot, name string) (os.FileInfo, error) {
	info, err := s.fs.Stat(filepath.Join(s.ReportDir(project, bot), name))
	if err != nil {
		return nil, fmt.Errorf("stat report: %w", err)
	}
	return info, nil
}

// ListReports returns timestamped report filenames, newest first.
// latest.md is excluded.
func (s *Store) ListReports(project, bot string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.ReportDir(project, bot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading report directory: %w", err)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		if name == latestName || !strings.HasSuffix(name, ".md") {
			continue
		}
		names = append(names, name)
	}
	// Lexical descending order of the stamp is chronological descending.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// EnsureProject creates the report skeleton for a project.
func (s *Store) EnsureProject(project string) error {
	return s.fs.MkdirAll(filepath.Join(s.root, project, "reports"), 0o755)
}

// Projects lists project directories under the store root, sorted.
func (s *Store) Projects() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data directory: %w", err)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Bots lists the bots that have report directories for a project, sorted.
func (s *Store) Bots(project string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, filepath.Join(s.root, project, "reports"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading reports directory: %w", err)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ParseStamp extracts the report time from a timestamped filename.
func ParseStamp(name string) (time.Time, error) {
	base := strings.TrimSuffix(filepath.Base(name), ".md")
	return time.Parse(stampLayout, base)
}
