package issues

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGitHub points the client at a local server standing in for a
// GitHub Enterprise instance, so requests land under /api/v3/.
func newTestGitHub(t *testing.T, serverURL string) *GitHubClient {
	t.Helper()
	c, err := NewGitHubClient("octo/demo", "test-token", serverURL+"/api/v3/")
	require.NoError(t, err)
	return c
}

func TestNewGitHubClientValidation(t *testing.T) {
	_, err := NewGitHubClient("justname", "tok", "")
	assert.Error(t, err)

	_, err = NewGitHubClient("/repo", "tok", "")
	assert.Error(t, err)

	_, err = NewGitHubClient("octo/demo", "", "")
	assert.Error(t, err)
}

func TestGitHubFetchIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/demo/issues", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("state"); got != "open" {
			t.Errorf("state = %q, want open", got)
		}
		if got := r.URL.Query().Get("sort"); got != "updated" {
			t.Errorf("sort = %q, want updated", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{
				"number": 7,
				"title": "API times out",
				"state": "open",
				"user": {"login": "alice"},
				"created_at": "2026-01-05T10:00:00Z",
				"updated_at": "2026-03-01T09:00:00Z",
				"labels": [{"name": "bug"}, {"name": "backend"}],
				"assignees": [{"login": "bob"}],
				"milestone": {"title": "v1.0", "due_on": "2026-04-01T00:00:00Z"},
				"body": "Requests hang after 30s",
				"html_url": "https://github.example/octo/demo/issues/7"
			},
			{
				"number": 8,
				"title": "Speed up CI",
				"state": "open",
				"user": {"login": "carol"},
				"created_at": "2026-02-01T10:00:00Z",
				"updated_at": "2026-02-20T09:00:00Z",
				"pull_request": {"url": "https://github.example/octo/demo/pulls/8"}
			},
			{
				"number": 5,
				"title": "Old crash",
				"state": "closed",
				"user": {"login": "alice"},
				"created_at": "2025-12-01T10:00:00Z",
				"updated_at": "2026-01-10T09:00:00Z",
				"closed_at": "2026-01-10T09:00:00Z"
			}
		]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestGitHub(t, server.URL)
	set, err := c.FetchIssues(context.Background(), StateOpen, 100)
	require.NoError(t, err)

	assert.Equal(t, "octo/demo", set.ProjectID)
	assert.Equal(t, "demo", set.ProjectName)
	require.Len(t, set.Issues, 2, "pull request should be skipped")

	first := set.Issues[0]
	assert.Equal(t, 7, first.IID)
	assert.Equal(t, StateOpen, first.State)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, []string{"bug", "backend"}, first.Labels)
	assert.Equal(t, []string{"bob"}, first.Assignees)
	assert.Equal(t, "v1.0", first.Milestone)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, "2026-04-01", first.DueDate.Format("2006-01-02"))
	assert.Nil(t, first.ClosedAt)
	assert.Nil(t, first.Weight)

	second := set.Issues[1]
	assert.Equal(t, StateClosed, second.State)
	require.NotNil(t, second.ClosedAt)
}

func TestGitHubFetchIssuesPagination(t *testing.T) {
	var pagesServed []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/demo/issues", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		w.Header().Set("Content-Type", "application/json")
		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/api/v3/repos/octo/demo/issues?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"number": 1, "title": "a", "state": "open",
				"created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-02T00:00:00Z"}]`)
			return
		}
		fmt.Fprint(w, `[{"number": 2, "title": "b", "state": "open",
			"created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-01T00:00:00Z"}]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestGitHub(t, server.URL)
	set, err := c.FetchIssues(context.Background(), StateAll, 100)
	require.NoError(t, err)

	assert.Len(t, set.Issues, 2)
	assert.Len(t, pagesServed, 2)
}

func TestGitHubFetchIssuesCap(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/demo/issues", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/api/v3/repos/octo/demo/issues?page=2>; rel="next"`, r.Host))
		fmt.Fprint(w, `[
			{"number": 1, "title": "a", "state": "open", "created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-03T00:00:00Z"},
			{"number": 2, "title": "b", "state": "open", "created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-02T00:00:00Z"}
		]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestGitHub(t, server.URL)
	set, err := c.FetchIssues(context.Background(), StateOpen, 1)
	require.NoError(t, err)

	assert.Len(t, set.Issues, 1)
	assert.Equal(t, 1, set.Issues[0].IID)
	assert.Equal(t, 1, requests, "cap reached, second page should not be fetched")
}

func TestGitHubFetchIssuesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestGitHub(t, server.URL)
	_, err := c.FetchIssues(context.Background(), StateOpen, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing github issues for octo/demo")
}
