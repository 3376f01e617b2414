package gitlog

import "strings"

// mergePrefixes match the subjects of auto-generated merge commits.
var mergePrefixes = []string{"merge branch", "merge pull request", "merge remote"}

// DefaultBotAuthors returns the default denylist of automation identities:
// common dependency-update and CI bots.
func DefaultBotAuthors() []string {
	return []string{
		"dependabot",
		"dependabot[bot]",
		"renovate",
		"renovate[bot]",
		"greenkeeper[bot]",
		"snyk-bot",
		"github-actions[bot]",
		"codecov[bot]",
	}
}

// FilterOptions configures noise filtering. A nil BotAuthors slice means
// DefaultBotAuthors; an empty non-nil slice disables the author rule.
type FilterOptions struct {
	BotAuthors         []string // automation identities, matched case-insensitively
	ExtraMergePrefixes []string // additional auto-merge subject prefixes
}

// Filter removes low-information commits from a newest-first window:
// auto-merge commits, commits authored by a denylisted automation
// identity, and repeated message subjects (the most recent occurrence
// wins). Pure function; surviving commits keep their input order.
func Filter(commits []Commit, opts FilterOptions) FilterResult {
	authors := opts.BotAuthors
	if authors == nil {
		authors = DefaultBotAuthors()
	}
	denied := make(map[string]bool, len(authors))
	for _, a := range authors {
		denied[strings.ToLower(a)] = true
	}

	prefixes := mergePrefixes
	if len(opts.ExtraMergePrefixes) > 0 {
		prefixes = make([]string, 0, len(mergePrefixes)+len(opts.ExtraMergePrefixes))
		prefixes = append(prefixes, mergePrefixes...)
		for _, p := range opts.ExtraMergePrefixes {
			prefixes = append(prefixes, strings.ToLower(p))
		}
	}

	seen := make(map[string]bool, len(commits))
	kept := make([]Commit, 0, len(commits))
	for _, c := range commits {
		subject := c.Subject()
		if hasAnyPrefix(strings.ToLower(subject), prefixes) {
			continue
		}
		if denied[strings.ToLower(c.Author)] {
			continue
		}
		if seen[subject] {
			continue
		}
		seen[subject] = true
		kept = append(kept, c)
	}
	return FilterResult{Commits: kept, Removed: len(commits) - len(kept)}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
