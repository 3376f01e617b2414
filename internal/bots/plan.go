package bots

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/issues"
	"github.com/danieluxury88/BotsTeam/internal/providers"
)

// Priority is assigned by the planner, it is not a tracker-native field.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Effort is the planner's estimated size of an issue.
type Effort string

const (
	EffortXS Effort = "XS" // < 2 hours
	EffortS  Effort = "S"  // ~half day
	EffortM  Effort = "M"  // 1 day
	EffortL  Effort = "L"  // 2-3 days
	EffortXL Effort = "XL" // 1 week+
)

var priorityOrder = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityNormal:   2,
	PriorityLow:      3,
}

var effortHours = map[Effort]float64{
	EffortXS: 1.5,
	EffortS:  4,
	EffortM:  8,
	EffortL:  20,
	EffortXL: 40,
}

// PlannedIssue is an issue enriched with planning metadata.
type PlannedIssue struct {
	Issue     issues.Issue
	Priority  Priority
	Effort    Effort
	Rationale string
	Week      int // suggested sprint week, 1-based
}

// WorkloadPlan is pmbot's structured planning output.
type WorkloadPlan struct {
	ProjectName   string
	TotalOpen     int
	PlannedIssues []PlannedIssue
	Warnings      []string
	Summary       string
}

// ByWeek buckets planned issues by sprint week. Week 99 is the
// unscheduled backlog; anything non-positive lands there.
func (p WorkloadPlan) ByWeek() map[int][]PlannedIssue {
	weeks := make(map[int][]PlannedIssue)
	for _, pi := range p.PlannedIssues {
		w := pi.Week
		if w <= 0 {
			w = 99
		}
		weeks[w] = append(weeks[w], pi)
	}
	return weeks
}

const pmbotPlanSystemPrompt = `You are PMBot acting as a sprint planner.
Your job is to take a list of open issues and return a structured JSON workload plan.

Return ONLY valid JSON — no markdown fences, no preamble, no explanation.

JSON schema:
{
  "summary": "one paragraph overview of the plan",
  "warnings": ["list of concerns or risks"],
  "issues": [
    {
      "iid": 42,
      "priority": "critical|high|normal|low",
      "effort": "XS|S|M|L|XL",
      "rationale": "brief reason for priority and effort",
      "week": 1
    }
  ]
}

Priority guide:
- critical: blockers, security issues, data loss risks
- high: significant user impact, major bugs, overdue items
- normal: standard features and improvements
- low: nice-to-haves, minor tweaks, cosmetic issues

Effort guide (working hours):
- XS: < 2 hours
- S: half day (~4h)
- M: 1 day (~8h)
- L: 2-3 days
- XL: 1 week or more

Assign weeks (1 = this week, 2 = next week, etc.) based on priority and effort.
Assume one developer working on this, ~5 effective hours per day.
`

// Models tend to wrap JSON in fences despite instructions.
var fenceRe = regexp.MustCompile("```(?:json)?")

type planItem struct {
	IID       int    `json:"iid"`
	Priority  string `json:"priority"`
	Effort    string `json:"effort"`
	Rationale string `json:"rationale"`
	Week      *int   `json:"week"`
}

type planPayload struct {
	Summary  string     `json:"summary"`
	Warnings []string   `json:"warnings"`
	Issues   []planItem `json:"issues"`
}

// Plan prioritizes the open issues, estimates effort, and schedules
// them into weeks. It returns both the structured plan and the Result
// wrapping the rendered report.
func (b *PMBot) Plan(ctx context.Context, set issues.Set) (WorkloadPlan, Result) {
	open := set.Open()
	if len(open) == 0 {
		plan := WorkloadPlan{ProjectName: set.ProjectName, Summary: "No open issues to plan."}
		return plan, Result{
			Bot:       "pmbot",
			Status:    StatusSkipped,
			Summary:   "No open issues found — nothing to plan.",
			Report:    "## ✅ No open issues\n\nThe backlog is empty.",
			Timestamp: time.Now().UTC(),
		}
	}

	prompt := fmt.Sprintf("Project: %s\nOpen issues to plan (%d total):\n\n%s\n\nReturn the JSON plan for all %d issues.\n",
		set.ProjectName, len(open), formatIssueList(open, pmOpenIssueCap), len(open))

	failed := WorkloadPlan{ProjectName: set.ProjectName, TotalOpen: len(open)}

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    pmbotPlanSystemPrompt,
		Prompt:    prompt,
		MaxTokens: pmbotPlanTokens,
	})
	if err != nil {
		return failed, Failure("pmbot", err.Error())
	}

	parsed, err := parsePlanJSON(resp.Text)
	if err != nil {
		return failed, Failure("pmbot", "JSON parse error from planner: "+err.Error())
	}

	index := make(map[int]issues.Issue, len(open))
	for _, i := range open {
		index[i.IID] = i
	}

	var planned []PlannedIssue
	for _, item := range parsed.Issues {
		issue, ok := index[item.IID]
		if !ok {
			continue // model hallucinated an iid
		}
		week := 1
		if item.Week != nil {
			week = *item.Week
		}
		planned = append(planned, PlannedIssue{
			Issue:     issue,
			Priority:  normalizePriority(item.Priority),
			Effort:    normalizeEffort(item.Effort),
			Rationale: item.Rationale,
			Week:      week,
		})
	}

	plan := WorkloadPlan{
		ProjectName:   set.ProjectName,
		TotalOpen:     len(open),
		PlannedIssues: planned,
		Warnings:      parsed.Warnings,
		Summary:       parsed.Summary,
	}

	weeks := len(plan.ByWeek())
	res := Result{
		Bot:    "pmbot",
		Status: StatusSuccess,
		Summary: fmt.Sprintf("Sprint plan for %s: %d issues across %d week(s)",
			set.ProjectName, len(planned), weeks),
		Report: renderPlanMarkdown(plan),
		Data: map[string]any{
			"project":       set.ProjectName,
			"total_planned": len(planned),
			"weeks":         weeks,
			"warnings":      plan.Warnings,
		},
		Timestamp: time.Now().UTC(),
	}
	return plan, res
}

func parsePlanJSON(raw string) (planPayload, error) {
	clean := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	var p planPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return planPayload{}, err
	}
	return p, nil
}

func normalizePriority(s string) Priority {
	p := Priority(s)
	if _, ok := priorityOrder[p]; ok {
		return p
	}
	return PriorityNormal
}

func normalizeEffort(s string) Effort {
	e := Effort(s)
	if _, ok := effortHours[e]; ok {
		return e
	}
	return EffortM
}

func renderPlanMarkdown(plan WorkloadPlan) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("# 🗓 Sprint Plan — %s", plan.ProjectName))
	lines = append(lines, "\n"+plan.Summary+"\n")

	if len(plan.Warnings) > 0 {
		lines = append(lines, "## ⚠️ Warnings")
		for _, w := range plan.Warnings {
			lines = append(lines, "- "+w)
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"## Priority Overview",
		"",
		"| # | Issue | Priority | Effort | Rationale |",
		"|---|-------|----------|--------|-----------|",
	)

	byPriority := make([]PlannedIssue, len(plan.PlannedIssues))
	copy(byPriority, plan.PlannedIssues)
	sort.SliceStable(byPriority, func(a, b int) bool {
		pa, pb := priorityOrder[byPriority[a].Priority], priorityOrder[byPriority[b].Priority]
		if pa != pb {
			return pa < pb
		}
		return scheduleWeek(byPriority[a].Week) < scheduleWeek(byPriority[b].Week)
	})

	for _, pi := range byPriority {
		lines = append(lines, fmt.Sprintf("| %s | %s | %s %s | `%s` | %s |",
			issueLink(pi.Issue),
			truncateRunes(pi.Issue.Title, 55),
			priorityIcon(pi.Priority), pi.Priority,
			pi.Effort,
			truncateRunes(pi.Rationale, 70)))
	}
	lines = append(lines, "")

	lines = append(lines, "## 📅 Weekly Schedule")
	weeks := plan.ByWeek()
	nums := make([]int, 0, len(weeks))
	for w := range weeks {
		nums = append(nums, w)
	}
	sort.Ints(nums)

	for _, w := range nums {
		label := fmt.Sprintf("Week %d", w)
		if w >= 99 {
			label = "Backlog (unscheduled)"
		}
		lines = append(lines, fmt.Sprintf("\n### %s", label))

		items := weeks[w]
		var load float64
		for _, pi := range items {
			load += hoursFor(pi.Effort)
		}
		lines = append(lines, fmt.Sprintf("*Estimated load: ~%.0fh*\n", load))

		sort.SliceStable(items, func(a, b int) bool {
			return priorityOrder[items[a].Priority] < priorityOrder[items[b].Priority]
		})
		for _, pi := range items {
			assignee := ""
			if len(pi.Issue.Assignees) > 0 {
				assignee = " — @" + strings.Join(pi.Issue.Assignees, ", ")
			}
			lines = append(lines, fmt.Sprintf("- %s %s **%s** `%s`%s",
				priorityIcon(pi.Priority), issueLink(pi.Issue), pi.Issue.Title, pi.Effort, assignee))
		}
	}

	return strings.Join(lines, "\n")
}

func scheduleWeek(w int) int {
	if w == 0 {
		return 99
	}
	return w
}

func hoursFor(e Effort) float64 {
	if h, ok := effortHours[e]; ok {
		return h
	}
	return 8
}

func priorityIcon(p Priority) string {
	switch p {
	case PriorityCritical:
		return "🔴"
	case PriorityHigh:
		return "🟠"
	case PriorityNormal:
		return "🟡"
	case PriorityLow:
		return "🟢"
	}
	return "⚪"
}

func issueLink(i issues.Issue) string {
	if i.WebURL != "" {
		return fmt.Sprintf("[#%d](%s)", i.IID, i.WebURL)
	}
	return fmt.Sprintf("#%d", i.IID)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
