package issues

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
)

const githubPerPage = 100

// GitHubClient fetches issues from one GitHub repository.
type GitHubClient struct {
	client *github.Client
	owner  string
	name   string
}

// NewGitHubClient builds a client for the given owner/name repository.
// A non-empty baseURL selects a GitHub Enterprise instance.
func NewGitHubClient(repo, token, baseURL string) (*GitHubClient, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("github repo must be owner/name, got %q", repo)
	}
	if token == "" {
		return nil, fmt.Errorf("github token is not set")
	}

	client := github.NewClient(nil).WithAuthToken(token)
	if baseURL != "" && baseURL != "https://api.github.com" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring github base URL: %w", err)
		}
	}

	return &GitHubClient{client: client, owner: owner, name: name}, nil
}

// FetchIssues returns up to maxIssues issues in the given state, most
// recently updated first. GitHub mixes pull requests into the issues
// listing; those are skipped.
func (c *GitHubClient) FetchIssues(ctx context.Context, state State, maxIssues int) (Set, error) {
	if maxIssues <= 0 || maxIssues > maxFetch {
		maxIssues = maxFetch
	}

	opts := &github.IssueListByRepoOptions{
		State:       string(state),
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}

	var out []Issue
	for {
		raw, resp, err := c.client.Issues.ListByRepo(ctx, c.owner, c.name, opts)
		if err != nil {
			return Set{}, fmt.Errorf("listing github issues for %s/%s: %w", c.owner, c.name, err)
		}
		for _, r := range raw {
			if r.IsPullRequest() {
				continue
			}
			out = append(out, fromGitHub(r))
			if len(out) == maxIssues {
				break
			}
		}
		if len(out) >= maxIssues || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return Set{
		ProjectID:   c.owner + "/" + c.name,
		ProjectName: c.name,
		FetchedAt:   time.Now().UTC(),
		Issues:      out,
	}, nil
}

func fromGitHub(raw *github.Issue) Issue {
	iss := Issue{
		IID:         raw.GetNumber(),
		Title:       raw.GetTitle(),
		State:       StateClosed,
		Author:      raw.GetUser().GetLogin(),
		CreatedAt:   raw.GetCreatedAt().Time,
		UpdatedAt:   raw.GetUpdatedAt().Time,
		Description: raw.GetBody(),
		WebURL:      raw.GetHTMLURL(),
	}
	if raw.GetState() == "open" {
		iss.State = StateOpen
	}
	for _, l := range raw.Labels {
		iss.Labels = append(iss.Labels, l.GetName())
	}
	for _, a := range raw.Assignees {
		iss.Assignees = append(iss.Assignees, a.GetLogin())
	}
	if m := raw.Milestone; m != nil {
		iss.Milestone = m.GetTitle()
		// Issues have no due date of their own on GitHub; the milestone
		// deadline is the closest thing.
		if m.DueOn != nil {
			due := m.DueOn.Time
			iss.DueDate = &due
		}
	}
	if raw.ClosedAt != nil {
		closed := raw.ClosedAt.Time
		iss.ClosedAt = &closed
	}
	return iss
}
