package dashboard

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/registry"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

// DefaultOutDir is where the generated JSON files land.
const DefaultOutDir = "dashboard/data"

// statusHead bounds how much of a report the status and summary
// heuristics read.
const statusHead = 500

// ProjectEntry is one project row in projects.json.
type ProjectEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Description  string   `json:"description"`
	GitLabID     int      `json:"gitlab_id,omitempty"`
	GitLabURL    string   `json:"gitlab_url,omitempty"`
	GitHubRepo   string   `json:"github_repo,omitempty"`
	LastActivity string   `json:"last_activity,omitempty"`
	ReportsCount int      `json:"reports_count"`
	BotsRun      []string `json:"bots_run"`
}

// ReportEntry is one report row in index.json.
type ReportEntry struct {
	ID          string `json:"id"`
	Bot         string `json:"bot"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name,omitempty"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
	Summary     string `json:"summary"`
	Path        string `json:"path"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Activity is one row of the recent-activity feed in dashboard.json.
type Activity struct {
	Timestamp string `json:"timestamp"`
	Bot       string `json:"bot"`
	Project   string `json:"project"`
	Status    string `json:"status"`
	Summary   string `json:"summary"`
}

// Stats are the dashboard headline numbers.
type Stats struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	TotalReports   int `json:"total_reports"`
	TotalBots      int `json:"total_bots"`
}

type projectsFile struct {
	Projects    []ProjectEntry `json:"projects"`
	LastUpdated string         `json:"last_updated"`
}

type indexFile struct {
	Reports      []ReportEntry `json:"reports"`
	LastUpdated  string        `json:"last_updated"`
	TotalReports int           `json:"total_reports"`
}

type dashboardFile struct {
	Version        string     `json:"version"`
	LastUpdated    string     `json:"last_updated"`
	Statistics     Stats      `json:"statistics"`
	RecentActivity []Activity `json:"recent_activity"`
}

// Generator writes the static dashboard JSON from the report store.
type Generator struct {
	Store  *store.Store
	FS     afero.Fs         // output filesystem, default OS
	OutDir string           // default DefaultOutDir
	Now    func() time.Time // default time.Now
}

// GenerateResult summarizes one generator pass.
type GenerateResult struct {
	Projects int
	Reports  int
	OutDir   string
}

func (g *Generator) fs() afero.Fs {
	if g.FS == nil {
		return afero.NewOsFs()
	}
	return g.FS
}

func (g *Generator) dir() string {
	if g.OutDir == "" {
		return DefaultOutDir
	}
	return g.OutDir
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Generate scans the given projects' reports and writes projects.json,
// index.json, and dashboard.json under OutDir.
func (g *Generator) Generate(projects []registry.Project) (GenerateResult, error) {
	updated := g.now().UTC().Format(time.RFC3339)

	entries := make([]ProjectEntry, 0, len(projects))
	allReports := make([]ReportEntry, 0)

	for _, p := range projects {
		reports := g.scanReports(p.Name)

		entry := ProjectEntry{
			ID:          p.Name,
			Name:        p.Name,
			Path:        p.Path,
			Description: p.Description,
			GitLabID:    p.GitLabProjectID,
			GitLabURL:   p.GitLabURL,
			GitHubRepo:  p.GitHubRepo,
			BotsRun:     []string{},
		}
		seen := map[string]bool{}
		for _, r := range reports {
			if r.Timestamp > entry.LastActivity {
				entry.LastActivity = r.Timestamp
			}
			if !seen[r.Bot] {
				seen[r.Bot] = true
				entry.BotsRun = append(entry.BotsRun, r.Bot)
			}
		}
		entry.ReportsCount = len(reports)
		entries = append(entries, entry)

		for i := range reports {
			reports[i].ProjectName = p.Name
		}
		allReports = append(allReports, reports...)
	}

	// RFC3339 strings sort chronologically, so string order is enough.
	sort.SliceStable(allReports, func(i, j int) bool {
		return allReports[i].Timestamp > allReports[j].Timestamp
	})

	active := 0
	for _, e := range entries {
		if e.LastActivity != "" {
			active++
		}
	}

	recent := make([]Activity, 0, 10)
	for _, r := range allReports {
		if len(recent) == 10 {
			break
		}
		recent = append(recent, Activity{
			Timestamp: r.Timestamp,
			Bot:       r.Bot,
			Project:   r.ProjectName,
			Status:    r.Status,
			Summary:   clip(r.Summary, 100),
		})
	}

	files := map[string]any{
		"projects.json": projectsFile{Projects: entries, LastUpdated: updated},
		"index.json":    indexFile{Reports: allReports, LastUpdated: updated, TotalReports: len(allReports)},
		"dashboard.json": dashboardFile{
			Version:     "1.0.0",
			LastUpdated: updated,
			Statistics: Stats{
				TotalProjects:  len(entries),
				ActiveProjects: active,
				TotalReports:   len(allReports),
				TotalBots:      len(bots.All()),
			},
			RecentActivity: recent,
		},
	}
	for name, data := range files {
		if err := g.writeJSON(name, data); err != nil {
			return GenerateResult{}, err
		}
	}

	return GenerateResult{Projects: len(entries), Reports: len(allReports), OutDir: g.dir()}, nil
}

// scanReports collects the timestamped reports for one project across
// every known bot. Unreadable files are skipped.
func (g *Generator) scanReports(projectID string) []ReportEntry {
	var out []ReportEntry
	for _, m := range bots.All() {
		names, err := g.Store.ListReports(projectID, m.ID)
		if err != nil {
			continue
		}
		for _, name := range names {
			if entry, ok := g.parseReport(projectID, m.ID, name); ok {
				out = append(out, entry)
			}
		}
	}
	return out
}

func (g *Generator) parseReport(projectID, bot, name string) (ReportEntry, bool) {
	info, err := g.Store.StatReport(projectID, bot, name)
	if err != nil {
		return ReportEntry{}, false
	}
	content, err := g.Store.ReadReport(projectID, bot, name)
	if err != nil {
		return ReportEntry{}, false
	}
	head := clip(content, statusHead)

	stem := strings.TrimSuffix(name, ".md")
	ts, err := store.ParseStamp(name)
	if err != nil {
		ts = info.ModTime()
	}

	return ReportEntry{
		ID:        fmt.Sprintf("%s-%s-%s", bot, projectID, stem),
		Bot:       bot,
		ProjectID: projectID,
		Timestamp: ts.UTC().Format(time.RFC3339),
		Status:    statusFor(head),
		Summary:   extractSummary(head),
		Path:      fmt.Sprintf("reports/%s/%s/%s", projectID, bot, name),
		SizeBytes: info.Size(),
	}, true
}

// statusFor guesses a report's outcome from its opening text. Failure
// markers win over warnings.
func statusFor(head string) string {
	lower := strings.ToLower(head)
	switch {
	case strings.Contains(head, "❌") || strings.Contains(lower, "failed") || strings.Contains(lower, "error"):
		return "failed"
	case strings.Contains(head, "⚠️") || strings.Contains(lower, "warning") || strings.Contains(lower, "partial"):
		return "partial"
	}
	return "success"
}

// extractSummary returns the first non-header line of a report.
func extractSummary(head string) string {
	for _, line := range strings.Split(head, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if s := strings.TrimSpace(line); s != "" {
			return clip(s, 200)
		}
	}
	return "No summary available"
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (g *Generator) writeJSON(name string, data any) error {
	fs := g.fs()
	if err := fs.MkdirAll(g.dir(), 0o755); err != nil {
		return fmt.Errorf("creating dashboard data dir: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := afero.WriteFile(fs, filepath.Join(g.dir(), name), raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
