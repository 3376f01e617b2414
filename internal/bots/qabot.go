package bots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/gitlog"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

const qabotMaxTokens = 2048

const qabotSystemPrompt = `You are QABot, a senior QA engineer who reviews recent development activity and recommends where testing effort should go.

Given a summary of recent commits, you identify:
- Which changes carry the most regression risk
- Which areas need new or updated tests
- What kinds of tests (unit, integration, end-to-end) fit each area

Guidelines:
- Prioritize ruthlessly: call out the riskiest changes first.
- Be specific about what to test, not just where.
- Flag changes that touch core logic, data handling, or external integrations.
- Format your response in clean Markdown with sections.
`

// QABot turns recent history into testing recommendations.
type QABot struct {
	LLM   providers.Summarizer
	Store *store.Store
}

// QABotOptions mirror GitBotOptions; both bots walk the same history.
type QABotOptions struct {
	RepoPath   string
	Branch     string
	MaxCommits int
	MaxGroups  int
	Since      string
	Until      string
	Filter     gitlog.FilterOptions
	Project    string
}

// Recommendation is qabot's rendered report plus run metadata.
type Recommendation struct {
	Report  string
	Commits int // commits analyzed after filtering
	Data    map[string]any
}

// Run analyzes the repository and wraps the outcome as a Result.
func (b *QABot) Run(ctx context.Context, opts QABotOptions) Result {
	rec, err := b.Recommend(ctx, opts)
	if err != nil {
		return qabotError(err)
	}

	if rec.Commits == 0 {
		return Result{
			Bot:       "qabot",
			Status:    StatusSuccess,
			Summary:   "No commits found to analyze.",
			Report:    rec.Report,
			Data:      rec.Data,
			Timestamp: time.Now().UTC(),
		}
	}

	res := Result{
		Bot:       "qabot",
		Status:    StatusSuccess,
		Summary:   shortSummary(rec.Report),
		Report:    rec.Report,
		Data:      rec.Data,
		Timestamp: time.Now().UTC(),
	}
	saveReport(b.Store, &res, opts.Project, "qabot", rec.Report)
	return res
}

// Recommend runs the full pipeline: read, filter, group, render, then
// ask the LLM for a test strategy. An empty history yields the canned
// no-changes report without calling the LLM.
func (b *QABot) Recommend(ctx context.Context, opts QABotOptions) (Recommendation, error) {
	maxCommits := opts.MaxCommits
	if maxCommits <= 0 {
		maxCommits = gitlog.DefaultMaxCommits
	}
	branch := opts.Branch
	if branch == "" {
		branch = "HEAD"
	}

	read, err := gitlog.Read(ctx, gitlog.Options{
		RepoPath:   opts.RepoPath,
		Branch:     branch,
		MaxCommits: maxCommits,
		Since:      opts.Since,
		Until:      opts.Until,
	})
	if err != nil {
		return Recommendation{}, err
	}

	filtered := gitlog.Filter(read.Commits, opts.Filter)
	if len(filtered.Commits) == 0 {
		return Recommendation{
			Report: "## No Changes\n\nNo commits found in repository.",
			Data:   map[string]any{"commit_count": 0},
		}, nil
	}

	groups := gitlog.GroupCommits(filtered.Commits, opts.MaxGroups)
	digest := gitlog.Render(groups)

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    qabotSystemPrompt,
		Prompt:    qabotPrompt(repoDisplayName(opts.RepoPath), digest),
		MaxTokens: qabotMaxTokens,
	})
	if err != nil {
		return Recommendation{}, err
	}

	return Recommendation{
		Report:  resp.Text,
		Commits: len(filtered.Commits),
		Data: map[string]any{
			"commit_count":   len(filtered.Commits),
			"filtered_count": filtered.Removed,
			"truncated":      read.Truncated,
			"groups":         len(groups),
			"branch":         branch,
		},
	}, nil
}

func qabotPrompt(repoName, digest string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recent development activity for the **%s** repository is summarized below. Recommend a testing strategy for it.\n", repoName)
	b.WriteString("\n" + digest + "\n\n")
	b.WriteString(`Produce a structured report with:
1. **Testing Summary** — overall read on how risky the recent changes are
2. **Priority Test Areas** — ranked list of the areas that most need test coverage now
3. **Risk Areas** — changes most likely to have introduced regressions
4. **Recommended Test Strategy** — concrete suggestions (unit, integration, e2e) for the next testing pass
`)
	return b.String()
}

func qabotError(err error) Result {
	return Result{
		Bot:       "qabot",
		Status:    StatusError,
		Summary:   "Failed to analyze repository: " + err.Error(),
		Data:      map[string]any{"error": err.Error()},
		Errors:    []string{err.Error()},
		Timestamp: time.Now().UTC(),
	}
}
