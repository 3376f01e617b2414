package bots

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/issues"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

// PMBot modes.
const (
	ModeAnalyze = "analyze"
	ModePlan    = "plan"
)

const (
	pmbotAnalyzeTokens = 1500
	pmbotPlanTokens    = 2000

	pmOpenIssueCap   = 60
	pmClosedIssueCap = 30
	pmLabelTop       = 15
)

const pmbotSystemPrompt = `You are PMBot, an expert software project manager and engineering lead.
You analyze project issues to help teams understand their backlog, identify patterns,
and plan work effectively.
Be concise, direct, and actionable. Format responses in clean Markdown.
`

// PMBot analyzes an issue tracker snapshot and plans sprints.
type PMBot struct {
	LLM   providers.Summarizer
	Store *store.Store
}

// Run dispatches on mode and persists the report when a project is
// named. An empty mode means analyze.
func (b *PMBot) Run(ctx context.Context, set issues.Set, mode, project string) Result {
	var res Result
	switch mode {
	case "", ModeAnalyze:
		res = b.Analyze(ctx, set)
	case ModePlan:
		_, res = b.Plan(ctx, set)
	default:
		return errorResult("pmbot", fmt.Sprintf("Unknown mode: %s. Use 'analyze' or 'plan'.", mode))
	}
	saveReport(b.Store, &res, project, "pmbot", res.Report)
	return res
}

// Analyze asks for a backlog health report over the whole set.
func (b *PMBot) Analyze(ctx context.Context, set issues.Set) Result {
	open := set.Open()
	closed := set.Closed()
	stale := set.Stale()
	labelLine, labelDist := labelFrequency(set)
	assignees := set.Assignees()

	prompt := pmbotAnalyzePrompt(set.ProjectName, open, closed, len(stale), labelLine, assignees)
	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    pmbotSystemPrompt,
		Prompt:    prompt,
		MaxTokens: pmbotAnalyzeTokens,
	})
	if err != nil {
		return Failure("pmbot", err.Error())
	}

	return Result{
		Bot:    "pmbot",
		Status: StatusSuccess,
		Summary: fmt.Sprintf("%d open / %d closed issues analyzed for %s",
			len(open), len(closed), set.ProjectName),
		Report: resp.Text,
		Data: map[string]any{
			"project":   set.ProjectName,
			"open":      len(open),
			"closed":    len(closed),
			"stale":     len(stale),
			"labels":    labelDist,
			"assignees": assignees,
		},
		Timestamp: time.Now().UTC(),
	}
}

func pmbotAnalyzePrompt(project string, open, closed []issues.Issue, stale int, labelLine string, assignees []string) string {
	openText := formatIssueList(open, pmOpenIssueCap)
	if openText == "" {
		openText = "No open issues."
	}
	closedText := formatIssueList(closed, pmClosedIssueCap)
	if closedText == "" {
		closedText = "No closed issues."
	}
	if labelLine == "" {
		labelLine = "none"
	}
	assigneeLine := strings.Join(assignees, ", ")
	if assigneeLine == "" {
		assigneeLine = "none"
	}

	return fmt.Sprintf(`Please analyze the tracked issues for **%s**.

## Stats
- Open issues: %d
- Closed issues: %d
- Stale open issues (no update >30 days): %d
- All labels (by frequency): %s
- Assignees: %s

## Open Issues
%s

## Recently Closed Issues (sample)
%s

Please produce a structured report:
1. **Project Health** — overall assessment of the backlog
2. **Patterns & Recurring Problems** — themes you notice across issues
3. **Hotspots** — labels, areas, or components with the most issues
4. **Team Workload** — distribution across assignees, any imbalances
5. **Stale Issues** — highlight any open issues that need attention
6. **Recommendations** — 3-5 concrete actions to improve the backlog
`, project, len(open), len(closed), stale, labelLine, assigneeLine, openText, closedText)
}

// formatIssueList renders a compact text representation of issues for
// LLM prompts, capped at max entries.
func formatIssueList(list []issues.Issue, max int) string {
	var lines []string
	total := len(list)
	if total > max {
		list = list[:max]
	}
	for _, i := range list {
		labels := ""
		if len(i.Labels) > 0 {
			labels = " [" + strings.Join(i.Labels, ", ") + "]"
		}
		assignee := " (unassigned)"
		if len(i.Assignees) > 0 {
			assignee = " @" + strings.Join(i.Assignees, ", ")
		}
		milestone := ""
		if i.Milestone != "" {
			milestone = " | milestone: " + i.Milestone
		}
		line := fmt.Sprintf("#%d %s%s%s%s | %dd old", i.IID, i.Title, labels, assignee, milestone, i.AgeDays())
		if d := i.ShortDesc(); d != "" {
			line += "\n     " + d
		}
		lines = append(lines, line)
	}
	if total > max {
		lines = append(lines, fmt.Sprintf("... and %d more issues not shown.", total-max))
	}
	return strings.Join(lines, "\n")
}

// labelFrequency returns the top-labels line for the prompt (count
// descending, first-seen order breaking ties) plus the full
// distribution for the result payload.
func labelFrequency(set issues.Set) (string, map[string]int) {
	labels := set.Labels()
	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l] = len(set.ByLabel(l))
	}

	top := make([]string, len(labels))
	copy(top, labels)
	sort.SliceStable(top, func(a, b int) bool { return counts[top[a]] > counts[top[b]] })
	if len(top) > pmLabelTop {
		top = top[:pmLabelTop]
	}

	parts := make([]string, 0, len(top))
	for _, l := range top {
		parts = append(parts, fmt.Sprintf("%s (%d)", l, counts[l]))
	}
	return strings.Join(parts, ", "), counts
}
