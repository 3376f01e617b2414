package bots

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/danieluxury88/BotsTeam/internal/issues"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/registry"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

const (
	orchestratorGitCommits = 300
	orchestratorQACommits  = 50
	maxConcurrentBots      = 4
)

// Orchestrator fans a project out to its bots and combines their
// reports into one run.
type Orchestrator struct {
	Store *store.Store

	// NewLLM builds the provider for one bot, letting each bot run
	// with its own model override.
	NewLLM func(bot string) (providers.Summarizer, error)

	// FetchIssues overrides the tracker lookup for pmbot. Nil means
	// fetch from whichever tracker the project is bound to.
	FetchIssues func(ctx context.Context, p registry.Project) (issues.Set, error)

	FS afero.Fs // filesystem for the personal bots, defaults to OS
}

// RunOptions tune a combined run.
type RunOptions struct {
	Bots       []string // empty selects BotsFor(project)
	MaxCommits int      // gitbot window, default 300
	QACommits  int      // qabot window, default 50
	PMMode     string   // analyze or plan, default analyze
	MaxIssues  int
	Since      string // git date filter, gitbot only
	Until      string
}

// Run is one orchestrated pass over a project.
type Run struct {
	ID        string        `json:"id"`
	Project   string        `json:"project"`
	Results   []Result      `json:"results"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Errors    []string      `json:"errors,omitempty"`
}

// OK reports whether every bot finished without failing. Skipped bots
// do not fail a run.
func (r Run) OK() bool {
	for _, res := range r.Results {
		if !res.OK() && res.Status != StatusSkipped {
			return false
		}
	}
	return true
}

// BotsFor returns the bot ids an orchestrated run covers: personal
// projects get the personal bots their configuration supports, team
// projects get the team bots (pmbot only when a tracker is bound).
func BotsFor(p registry.Project) []string {
	if p.Scope == registry.ScopePersonal {
		var ids []string
		for _, m := range PersonalBots() {
			if m.RequiresField == "" || hasProjectField(p, m.RequiresField) {
				ids = append(ids, m.ID)
			}
		}
		return ids
	}
	ids := []string{"gitbot", "qabot"}
	if p.HasGitLab() || p.HasGitHub() {
		ids = append(ids, "pmbot")
	}
	return ids
}

func hasProjectField(p registry.Project, field string) bool {
	switch field {
	case "notesDir":
		return p.NotesDir != ""
	case "taskFile":
		return p.TaskFile != ""
	case "habitFile":
		return p.HabitFile != ""
	}
	return false
}

// RunAll executes the selected bots concurrently. Bot failures land in
// their Result; the run itself always completes.
func (o *Orchestrator) RunAll(ctx context.Context, project registry.Project, opts RunOptions) Run {
	ids := opts.Bots
	if len(ids) == 0 {
		ids = BotsFor(project)
	}

	run := Run{
		ID:        uuid.NewString(),
		Project:   project.Name,
		Results:   make([]Result, len(ids)),
		StartedAt: time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBots)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			run.Results[i] = o.Invoke(gctx, id, project, opts)
			return nil
		})
	}
	_ = g.Wait() // bot failures land in Results, never as errors
	run.Duration = time.Since(run.StartedAt)

	if o.Store != nil && project.Name != "" {
		if _, _, err := o.Store.SaveReport(project.Name, "orchestrator", run.CombinedReport()); err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("saving combined report: %v", err))
		}
	}
	return run
}

// Invoke runs a single bot against a project, resolving its inputs
// from the registry entry.
func (o *Orchestrator) Invoke(ctx context.Context, bot string, project registry.Project, opts RunOptions) Result {
	meta, ok := Lookup(bot)
	if !ok || meta.ID == "orchestrator" {
		return dispatchError(bot, "Unknown bot: "+bot, "unknown_bot")
	}

	llm, err := o.NewLLM(bot)
	if err != nil {
		return dispatchError(bot, fmt.Sprintf("LLM provider unavailable: %v", err), "provider_unavailable")
	}

	switch bot {
	case "gitbot":
		if res, ok := repoPathError(bot, project.Path); !ok {
			return res
		}
		maxCommits := opts.MaxCommits
		if maxCommits <= 0 {
			maxCommits = orchestratorGitCommits
		}
		gb := &GitBot{LLM: llm, Store: o.Store}
		return gb.Run(ctx, GitBotOptions{
			RepoPath:   project.Path,
			MaxCommits: maxCommits,
			Since:      opts.Since,
			Until:      opts.Until,
			Project:    project.Name,
		})

	case "qabot":
		if res, ok := repoPathError(bot, project.Path); !ok {
			return res
		}
		maxCommits := opts.QACommits
		if maxCommits <= 0 {
			maxCommits = orchestratorQACommits
		}
		qb := &QABot{LLM: llm, Store: o.Store}
		return qb.Run(ctx, QABotOptions{
			RepoPath:   project.Path,
			MaxCommits: maxCommits,
			Project:    project.Name,
		})

	case "pmbot":
		set, errRes := o.issueSetFor(ctx, project, opts.MaxIssues)
		if errRes != nil {
			return *errRes
		}
		mode := opts.PMMode
		if mode == "" {
			mode = ModeAnalyze
		}
		pb := &PMBot{LLM: llm, Store: o.Store}
		return pb.Run(ctx, set, mode, project.Name)

	case "journalbot":
		dir := project.NotesDir
		if dir == "" {
			dir = project.Path
		}
		jb := &JournalBot{LLM: llm, Store: o.Store, FS: o.FS}
		return jb.Run(ctx, JournalBotOptions{NotesDir: dir, Project: project.Name})

	case "taskbot":
		path := project.TaskFile
		if path == "" {
			path = project.Path
		}
		tb := &TaskBot{LLM: llm, Store: o.Store, FS: o.FS}
		return tb.Run(ctx, TaskBotOptions{TaskPath: path, Project: project.Name})

	case "habitbot":
		if project.HabitFile == "" {
			return dispatchError(bot,
				fmt.Sprintf("Project '%s' has no habit_file configured", project.Name),
				"missing_habit_file")
		}
		hb := &HabitBot{LLM: llm, Store: o.Store, FS: o.FS}
		return hb.Run(ctx, HabitBotOptions{HabitPath: project.HabitFile, Project: project.Name})

	case "notebot":
		dir := project.NotesDir
		if dir == "" {
			dir = project.Path
		}
		nb := &NoteBot{LLM: llm, Store: o.Store, FS: o.FS}
		return nb.Run(ctx, NoteBotOptions{NotesDir: dir, Project: project.Name})
	}

	return dispatchError(bot, "Unknown bot: "+bot, "unknown_bot")
}

// issueSetFor fetches the issue snapshot pmbot works on, mapping token
// and fetch problems to dispatch errors.
func (o *Orchestrator) issueSetFor(ctx context.Context, project registry.Project, maxIssues int) (issues.Set, *Result) {
	fetch := func() (issues.Set, error) {
		if o.FetchIssues != nil {
			return o.FetchIssues(ctx, project)
		}
		return FetchProjectIssues(ctx, project, maxIssues)
	}

	switch {
	case project.HasGitLab():
		if project.ResolveGitLabToken() == "" {
			res := dispatchError("pmbot", "GitLab token not found (check environment or project credentials)", "missing_gitlab_token")
			return issues.Set{}, &res
		}
		set, err := fetch()
		if err != nil {
			res := dispatchError("pmbot", fmt.Sprintf("Failed to fetch GitLab issues: %v", err), "gitlab_fetch_failed")
			return issues.Set{}, &res
		}
		return set, nil

	case project.HasGitHub():
		if project.ResolveGitHubToken() == "" {
			res := dispatchError("pmbot", "GitHub token not found (check environment or project credentials)", "missing_github_token")
			return issues.Set{}, &res
		}
		set, err := fetch()
		if err != nil {
			res := dispatchError("pmbot", fmt.Sprintf("Failed to fetch GitHub issues: %v", err), "github_fetch_failed")
			return issues.Set{}, &res
		}
		return set, nil
	}

	res := dispatchError("pmbot",
		fmt.Sprintf("Project '%s' has no GitLab or GitHub integration", project.Name),
		"no_issue_integration")
	return issues.Set{}, &res
}

// FetchProjectIssues pulls the full issue snapshot for a registered
// project from whichever tracker it is bound to.
func FetchProjectIssues(ctx context.Context, p registry.Project, maxIssues int) (issues.Set, error) {
	switch {
	case p.HasGitLab():
		c, err := issues.NewGitLabClient(p.GitLabProjectID, p.ResolveGitLabToken(), p.ResolveGitLabURL())
		if err != nil {
			return issues.Set{}, err
		}
		return c.FetchIssues(ctx, issues.StateAll, maxIssues)
	case p.HasGitHub():
		c, err := issues.NewGitHubClient(p.GitHubRepo, p.ResolveGitHubToken(), p.ResolveGitHubAPIURL())
		if err != nil {
			return issues.Set{}, err
		}
		return c.FetchIssues(ctx, issues.StateAll, maxIssues)
	}
	return issues.Set{}, fmt.Errorf("project %q has no issue tracker configured", p.Name)
}

func repoPathError(bot, path string) (Result, bool) {
	if path == "" {
		return dispatchError(bot, bot+" requires a registered project with a repository path", "missing_repo_path"), false
	}
	if _, err := os.Stat(path); err != nil {
		return dispatchError(bot, "Repository path does not exist: "+path, "path_not_found"), false
	}
	return Result{}, true
}

func dispatchError(bot, msg, code string) Result {
	res := errorResult(bot, msg)
	res.Data = map[string]any{"error": code}
	return res
}

// CombinedReport renders the run as one markdown document: a status
// table followed by each bot's report.
func (r Run) CombinedReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🎭 Combined Report — %s\n\n", r.Project)
	fmt.Fprintf(&b, "Run `%s` · %s · %d bot(s) in %s\n\n",
		r.ID, r.StartedAt.Format("2006-01-02 15:04"), len(r.Results), r.Duration.Round(time.Millisecond))
	b.WriteString(r.StatusTable())

	for _, res := range r.Results {
		fmt.Fprintf(&b, "\n---\n\n## %s %s\n\n", botIcon(res.Bot), res.Bot)
		if res.Report != "" {
			b.WriteString(res.Report)
		} else {
			b.WriteString(res.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// StatusTable renders the per-bot outcome as a markdown table.
func (r Run) StatusTable() string {
	var b strings.Builder
	b.WriteString("| Bot | Status | Summary |\n")
	b.WriteString("|-----|--------|---------|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s %s | %s | %s |\n",
			botIcon(res.Bot), res.Bot, statusBadge(res.Status), tableCell(res.Summary))
	}
	return b.String()
}

func statusBadge(s Status) string {
	switch s {
	case StatusSuccess:
		return "✅ success"
	case StatusPartial:
		return "⚠️ partial"
	case StatusWarning:
		return "⚠️ warning"
	case StatusFailed:
		return "❌ failed"
	case StatusError:
		return "❌ error"
	case StatusSkipped:
		return "⏭️ skipped"
	}
	return string(s)
}

func botIcon(bot string) string {
	if m, ok := Lookup(bot); ok {
		return m.Icon
	}
	return "🤖"
}

// tableCell keeps a summary on one table row.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
