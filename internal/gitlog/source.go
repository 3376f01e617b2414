package gitlog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxCommits bounds the read window when Options.MaxCommits is zero.
const DefaultMaxCommits = 100

// Log records are delimited with control characters so multi-line commit
// bodies parse unambiguously.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

// Options controls a single history read.
type Options struct {
	RepoPath   string
	Branch     string // ref to walk, default "HEAD"
	MaxCommits int    // default DefaultMaxCommits
	Since      string // passed to the backend unvalidated
	Until      string
}

// ErrRepoNotFound reports that the path does not resolve to a git working
// copy. Fatal; callers should surface it without retrying.
var ErrRepoNotFound = errors.New("repository not found")

// ReadError wraps a backend failure while querying history, including
// context cancellation. Callers may retry with backoff.
type ReadError struct {
	Repo string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading git history in %s: %v", e.Repo, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Read pulls up to MaxCommits commits from the repository in
// reverse-chronological order and reports whether history continues past
// the window. The backend is asked for one commit beyond the cap: a full
// overshoot proves truncation without a separate counting query.
func Read(ctx context.Context, opts Options) (ReadResult, error) {
	if opts.RepoPath == "" {
		opts.RepoPath = "."
	}
	branch := opts.Branch
	if branch == "" {
		branch = "HEAD"
	}
	maxCommits := opts.MaxCommits
	if maxCommits <= 0 {
		maxCommits = DefaultMaxCommits
	}

	if _, err := gitOutput(ctx, opts.RepoPath, "rev-parse", "--git-dir"); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ReadResult{}, &ReadError{Repo: opts.RepoPath, Err: err}
		}
		return ReadResult{}, fmt.Errorf("%w: %s", ErrRepoNotFound, opts.RepoPath)
	}

	args := []string{
		"log", branch,
		"--max-count=" + strconv.Itoa(maxCommits+1),
		"--pretty=format:" + recordSep + "%h" + fieldSep + "%ct" + fieldSep + "%an" + fieldSep + "%B" + fieldSep,
		"--name-only",
	}
	if opts.Since != "" {
		args = append(args, "--since="+opts.Since)
	}
	if opts.Until != "" {
		args = append(args, "--until="+opts.Until)
	}

	out, err := gitOutput(ctx, opts.RepoPath, args...)
	if err != nil {
		return ReadResult{}, &ReadError{Repo: opts.RepoPath, Err: err}
	}

	commits := parseLog(out)
	truncated := len(commits) > maxCommits
	if truncated {
		commits = commits[:maxCommits]
	}
	return ReadResult{Commits: commits, Truncated: truncated}, nil
}

// parseLog splits raw log output into commits. Malformed records are
// skipped and a missing file section degrades to empty Files; a partial
// read beats failing the batch.
func parseLog(out string) []Commit {
	var commits []Commit
	for _, record := range strings.Split(out, recordSep) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		parts := strings.SplitN(record, fieldSep, 5)
		if len(parts) < 4 {
			continue
		}
		c := Commit{
			ID:      strings.TrimSpace(parts[0]),
			Author:  strings.TrimSpace(parts[2]),
			Message: strings.TrimRight(parts[3], "\n"),
		}
		if secs, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64); err == nil {
			c.Timestamp = time.Unix(secs, 0).UTC()
		}
		if len(parts) == 5 {
			for _, line := range strings.Split(parts[4], "\n") {
				if line = strings.TrimSpace(line); line != "" {
					c.Files = append(c.Files, line)
				}
			}
		}
		commits = append(commits, c)
	}
	return commits
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
