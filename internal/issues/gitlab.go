package issues

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gitlab "github.com/xanzy/go-gitlab"
)

// GitLabClient fetches issues from one GitLab project.
type GitLabClient struct {
	client    *gitlab.Client
	projectID int
}

// NewGitLabClient builds a client for the given numeric project ID.
// A non-empty baseURL selects a self-hosted instance.
func NewGitLabClient(projectID int, token, baseURL string) (*GitLabClient, error) {
	if projectID <= 0 {
		return nil, fmt.Errorf("gitlab project id must be positive, got %d", projectID)
	}
	if token == "" {
		return nil, fmt.Errorf("gitlab token is not set")
	}

	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}

	return &GitLabClient{client: client, projectID: projectID}, nil
}

// FetchIssues returns up to maxIssues issues in the given state, most
// recently updated first.
func (c *GitLabClient) FetchIssues(ctx context.Context, state State, maxIssues int) (Set, error) {
	if maxIssues <= 0 || maxIssues > maxFetch {
		maxIssues = maxFetch
	}

	project, _, err := c.client.Projects.GetProject(c.projectID, nil, gitlab.WithContext(ctx))
	if err != nil {
		return Set{}, fmt.Errorf("resolving gitlab project %d: %w", c.projectID, err)
	}

	perPage := maxIssues
	if perPage > 100 {
		perPage = 100
	}
	opts := &gitlab.ListProjectIssuesOptions{
		OrderBy:     gitlab.Ptr("updated_at"),
		Sort:        gitlab.Ptr("desc"),
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: perPage},
	}
	if s := gitlabState(state); s != "" {
		opts.State = gitlab.Ptr(s)
	}

	var out []Issue
	for {
		raw, resp, err := c.client.Issues.ListProjectIssues(c.projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return Set{}, fmt.Errorf("listing gitlab issues for project %d: %w", c.projectID, err)
		}
		for _, r := range raw {
			out = append(out, fromGitLab(r))
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
		ProjectID:   strconv.Itoa(c.projectID),
		ProjectName: project.Name,
		FetchedAt:   time.Now().UTC(),
		Issues:      out,
	}, nil
}

// gitlabState maps the shared state filter onto GitLab's parameter,
// where open issues are "opened" and "all" means omitting the filter.
func gitlabState(state State) string {
	switch state {
	case StateOpen:
		return "opened"
	case StateClosed:
		return "closed"
	default:
		return ""
	}
}

func fromGitLab(raw *gitlab.Issue) Issue {
	iss := Issue{
		IID:         raw.IID,
		Title:       raw.Title,
		State:       StateClosed,
		Labels:      append([]string(nil), raw.Labels...),
		Description: raw.Description,
		WebURL:      raw.WebURL,
	}
	if raw.State == "opened" {
		iss.State = StateOpen
	}
	if raw.Author != nil {
		iss.Author = raw.Author.Username
		if iss.Author == "" {
			iss.Author = raw.Author.Name
		}
	}
	if raw.CreatedAt != nil {
		iss.CreatedAt = *raw.CreatedAt
	}
	if raw.UpdatedAt != nil {
		iss.UpdatedAt = *raw.UpdatedAt
	}
	for _, a := range raw.Assignees {
		if a != nil {
			iss.Assignees = append(iss.Assignees, a.Username)
		}
	}
	if raw.Milestone != nil {
		iss.Milestone = raw.Milestone.Title
	}
	if raw.Weight > 0 {
		w := raw.Weight
		iss.Weight = &w
	}
	if raw.DueDate != nil {
		due := time.Time(*raw.DueDate)
		iss.DueDate = &due
	}
	if raw.ClosedAt != nil {
		closed := *raw.ClosedAt
		iss.ClosedAt = &closed
	}
	return iss
}
