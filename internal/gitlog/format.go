package gitlog

import (
	"fmt"
	"sort"
	"strings"
)

// subjectLimit caps rendered commit subjects, in runes.
const subjectLimit = 120

// maxAreaEntries caps the "Areas touched" line per group.
const maxAreaEntries = 6

// Render produces the deterministic text digest of a group sequence for
// embedding in a prompt. Groups render in the order received; empty input
// renders to an empty string. Prompt-size bounding is the caller's job.
func Render(groups []Group) string {
	if len(groups) == 0 {
		return ""
	}
	var lines []string
	for _, g := range groups {
		start, end := g.DateRange()
		dateStr := start.UTC().Format(dayKeyFormat)
		if endStr := end.UTC().Format(dayKeyFormat); endStr != dateStr {
			dateStr += " → " + endStr
		}
		lines = append(lines, fmt.Sprintf("\n## %s (%s) — %d commit(s)", g.Label, dateStr, len(g.Commits)))
		lines = append(lines, "Authors: "+strings.Join(g.Authors(), ", "))
		if areas := areaSummary(g.TouchedFiles()); areas != "" {
			lines = append(lines, "Areas touched: "+areas)
		}
		for _, c := range g.Commits {
			lines = append(lines, fmt.Sprintf("  [%s] %s", c.ID, truncate(c.Subject(), subjectLimit)))
		}
	}
	return strings.Join(lines, "\n")
}

// areaSummary renders touched files by top-level path segment, most
// frequent first, capped at maxAreaEntries.
func areaSummary(files []string) string {
	if len(files) == 0 {
		return ""
	}
	counts := make(map[string]int)
	var order []string
	for _, f := range files {
		seg := f
		if i := strings.IndexByte(f, '/'); i >= 0 {
			seg = f[:i]
		}
		if counts[seg] == 0 {
			order = append(order, seg)
		}
		counts[seg]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxAreaEntries {
		order = order[:maxAreaEntries]
	}
	parts := make([]string, 0, len(order))
	for _, seg := range order {
		parts = append(parts, fmt.Sprintf("%s (%d)", seg, counts[seg]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
