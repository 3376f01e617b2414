package issues

import (
	"strings"
	"time"
)

// State filters issue listings.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateAll    State = "all"
)

const (
	// maxFetch caps how many issues a single fetch may return.
	maxFetch = 500

	// staleAfterDays is how long an open issue may sit without updates
	// before it counts as stale.
	staleAfterDays = 30

	shortDescLen = 200
)

// Issue is one tracker issue, normalized from GitLab or GitHub.
type Issue struct {
	IID         int        `json:"iid"`
	Title       string     `json:"title"`
	State       State      `json:"state"`
	Author      string     `json:"author"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Labels      []string   `json:"labels,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	Milestone   string     `json:"milestone,omitempty"`
	Description string     `json:"description,omitempty"`
	Weight      *int       `json:"weight,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	WebURL      string     `json:"webUrl,omitempty"`
}

// AgeDays returns how many days ago the issue was opened.
func (i Issue) AgeDays() int {
	return int(time.Since(i.CreatedAt).Hours() / 24)
}

// Stale reports whether the issue is open and has not been updated for
// more than staleAfterDays days.
func (i Issue) Stale() bool {
	if i.State != StateOpen {
		return false
	}
	return time.Since(i.UpdatedAt) > staleAfterDays*24*time.Hour
}

// ShortDesc returns the first 200 characters of the description,
// flattened to a single line.
func (i Issue) ShortDesc() string {
	d := i.Description
	if r := []rune(d); len(r) > shortDescLen {
		d = string(r[:shortDescLen])
	}
	d = strings.ReplaceAll(d, "\n", " ")
	return strings.TrimSpace(d)
}

// Set is the collection of issues fetched for one project.
type Set struct {
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Issues      []Issue   `json:"issues"`
}

// Open returns the open issues.
func (s Set) Open() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.State == StateOpen {
			out = append(out, i)
		}
	}
	return out
}

// Closed returns the closed issues.
func (s Set) Closed() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.State == StateClosed {
			out = append(out, i)
		}
	}
	return out
}

// Stale returns the open issues that have gone quiet.
func (s Set) Stale() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.Stale() {
			out = append(out, i)
		}
	}
	return out
}

// Labels returns every label in the set, in first-seen order.
func (s Set) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, i := range s.Issues {
		for _, l := range i.Labels {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

// Assignees returns every assignee in the set, in first-seen order.
func (s Set) Assignees() []string {
	seen := make(map[string]bool)
	var out []string
	for _, i := range s.Issues {
		for _, a := range i.Assignees {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// ByLabel returns the issues carrying the given label.
func (s Set) ByLabel(label string) []Issue {
	var out []Issue
	for _, i := range s.Issues {
		for _, l := range i.Labels {
			if l == label {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// ByAssignee returns the issues assigned to the given user.
func (s Set) ByAssignee(assignee string) []Issue {
	var out []Issue
	for _, i := range s.Issues {
		for _, a := range i.Assignees {
			if a == assignee {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
