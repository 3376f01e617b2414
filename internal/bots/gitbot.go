package bots

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/gitlog"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

const gitbotMaxTokens = 1024

const gitbotSystemPrompt = `You are GitBot, an expert software engineer assistant specializing in code review and project analysis.

Your job is to analyze a grouped git commit history and produce a clear, high-level summary that helps
developers and project managers quickly understand:
- What has been worked on recently
- Which areas of the codebase are most active
- Any patterns worth highlighting (e.g. bug-fix bursts, feature development phases, refactoring periods)
- A brief assessment of development velocity and team activity

Guidelines:
- Be concise and direct. Avoid filler phrases.
- Group your observations naturally — don't just restate the commit list.
- Use developer-friendly language.
- If you spot anything noteworthy (e.g. many fixes in one area, or a quiet period followed by heavy activity), call it out.
- Format your response in clean Markdown with sections.
`

// ChangeSet is gitbot's structured output, consumable by other bots
// without re-reading history.
type ChangeSet struct {
	Summary      string
	FilesTouched []string
	DateStart    time.Time
	DateEnd      time.Time
	Raw          map[string]any
}

// GitBot summarizes recent repository activity.
type GitBot struct {
	LLM   providers.Summarizer
	Store *store.Store
}

// GitBotOptions control one analysis run.
type GitBotOptions struct {
	RepoPath   string
	Branch     string
	MaxCommits int
	MaxGroups  int
	Since      string
	Until      string
	Filter     gitlog.FilterOptions
	Project    string // registry name; set to persist the report
}

// Run analyzes the repository and wraps the outcome as a Result.
func (b *GitBot) Run(ctx context.Context, opts GitBotOptions) Result {
	cs, err := b.Changes(ctx, opts)
	if err != nil {
		return Result{
			Bot:       "gitbot",
			Status:    StatusError,
			Summary:   "Failed to analyze repository: " + err.Error(),
			Data:      map[string]any{"error": err.Error()},
			Errors:    []string{err.Error()},
			Timestamp: time.Now().UTC(),
		}
	}

	data := make(map[string]any, len(cs.Raw)+1)
	for k, v := range cs.Raw {
		data[k] = v
	}
	data["files_touched"] = cs.FilesTouched

	res := Result{
		Bot:       "gitbot",
		Status:    StatusSuccess,
		Summary:   shortSummary(cs.Summary),
		Report:    cs.Summary,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	saveReport(b.Store, &res, opts.Project, "gitbot", cs.Summary)
	return res
}

// Changes runs the full pipeline: read, filter, group, render, then ask
// the LLM for the narrative summary.
func (b *GitBot) Changes(ctx context.Context, opts GitBotOptions) (ChangeSet, error) {
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
		return ChangeSet{}, err
	}

	filtered := gitlog.Filter(read.Commits, opts.Filter)
	if len(filtered.Commits) == 0 {
		return ChangeSet{Summary: "No commits found", Raw: map[string]any{"commit_count": 0}}, nil
	}

	groups := gitlog.GroupCommits(filtered.Commits, opts.MaxGroups)
	digest := gitlog.Render(groups)

	prompt := gitbotPrompt(repoDisplayName(opts.RepoPath), digest, filtered.Removed, read.Truncated)
	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    gitbotSystemPrompt,
		Prompt:    prompt,
		MaxTokens: gitbotMaxTokens,
	})
	if err != nil {
		return ChangeSet{}, err
	}

	cs := ChangeSet{
		Summary:      resp.Text,
		FilesTouched: touchedFiles(groups),
		Raw: map[string]any{
			"commit_count":   len(filtered.Commits),
			"filtered_count": filtered.Removed,
			"truncated":      read.Truncated,
			"groups":         len(groups),
			"branch":         branch,
		},
	}
	cs.DateStart, cs.DateEnd = commitDateRange(groups)
	return cs, nil
}

func gitbotPrompt(repoName, digest string, removed int, truncated bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please analyze the following git history for the **%s** repository and provide a high-level summary.\n", repoName)
	if removed > 0 {
		fmt.Fprintf(&b, "Noise filtered out before grouping: %d commit(s) (merges, bot authors, duplicate subjects).\n", removed)
	}
	if truncated {
		b.WriteString("\n**Note:** This is a partial history — the repository has more commits than were analyzed.\n")
	}
	b.WriteString("\n" + digest + "\n\n")
	b.WriteString(`Produce a structured report with:
1. **Overview** — one paragraph summarizing the overall activity
2. **Key Changes** — the most significant work done, grouped logically
3. **Active Areas** — which parts of the codebase saw the most activity
4. **Observations** — any patterns, concerns, or highlights worth noting
`)
	return b.String()
}

func repoDisplayName(path string) string {
	if path == "" {
		path = "."
	}
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(path)
}

func touchedFiles(groups []gitlog.Group) []string {
	seen := make(map[string]bool)
	var files []string
	for _, g := range groups {
		for _, f := range g.TouchedFiles() {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

func commitDateRange(groups []gitlog.Group) (start, end time.Time) {
	for _, g := range groups {
		for _, c := range g.Commits {
			if start.IsZero() || c.Timestamp.Before(start) {
				start = c.Timestamp
			}
			if c.Timestamp.After(end) {
				end = c.Timestamp
			}
		}
	}
	return start, end
}

// saveReport persists a finished report when a project is named. Save
// problems are recorded on the result, they do not fail the run.
func saveReport(st *store.Store, res *Result, project, bot, report string) {
	if st == nil || project == "" || report == "" {
		return
	}
	latest, stamped, err := st.SaveReport(project, bot, report)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("saving report: %v", err))
		return
	}
	if res.Data == nil {
		res.Data = map[string]any{}
	}
	res.Data["report_saved"] = map[string]any{"latest": latest, "timestamped": stamped}
}
