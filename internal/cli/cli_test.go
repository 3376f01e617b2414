package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/gitlog"
	"github.com/danieluxury88/BotsTeam/internal/issues"
	"github.com/danieluxury88/BotsTeam/internal/registry"
)

// resetFlags restores all package-level flag variables to their
// registered defaults.
func resetFlags() {
	flagProvider = ""
	flagModel = ""
	flagProject = ""
	flagRegistry = ""
	flagNoRedact = false

	flagRepo = "."
	flagBranch = ""
	flagMaxCommits = 0
	flagSince = ""
	flagUntil = ""
	flagMaxGroups = 0
	flagFilterPolicy = ""
	flagDryRun = false

	flagGitLabID = 0
	flagGitHubRepo = ""
	flagPlan = false
	flagState = "all"
	flagMaxIssues = 0

	flagDir = ""
	flagMaxFiles = 0
	flagFile = ""
	flagWrite = false

	flagBots = ""
	flagFormat = "text"
	flagOut = ""

	flagDescription = ""
	flagLanguage = ""
	flagScope = "team"
	flagNotesDir = ""
	flagTaskFile = ""
	flagHabitFile = ""
	flagGitLabURL = ""
	flagGitLabToken = ""

	flagPort = 0
	flagNoGenerate = false
	flagDataDir = ""
}

// --- splitComma tests ---

func TestSplitComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single value", "gitbot", []string{"gitbot"}},
		{"multiple values", "gitbot,qabot,pmbot", []string{"gitbot", "qabot", "pmbot"}},
		{"whitespace trimmed", " gitbot , qabot ", []string{"gitbot", "qabot"}},
		{"empty parts skipped", "gitbot,,qabot", []string{"gitbot", "qabot"}},
		{"all empty", ",,,", nil},
		{"trailing comma", "gitbot,qabot,", []string{"gitbot", "qabot"}},
		{"leading comma", ",gitbot,qabot", []string{"gitbot", "qabot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitComma(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitComma(%q) = %v (len %d), want %v (len %d)",
					tt.input, got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitComma(%q)[%d] = %q, want %q",
						tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagProvider = "openai"
	flagModel = "gpt-4.1-mini"
	flagMaxCommits = 25
	flagMaxGroups = 5
	flagFilterPolicy = "policy.yaml"
	flagRegistry = "projects.json"

	m := buildOverrides()

	expected := map[string]string{
		"provider":     "openai",
		"model":        "gpt-4.1-mini",
		"maxCommits":   "25",
		"maxGroups":    "5",
		"filterPolicy": "policy.yaml",
		"registryPath": "projects.json",
	}

	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d", len(m), len(expected))
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestBuildOverrides_ZeroIntsExcluded(t *testing.T) {
	resetFlags()
	flagProvider = "anthropic"
	flagMaxCommits = 0
	flagMaxGroups = 0

	m := buildOverrides()

	if _, ok := m["maxCommits"]; ok {
		t.Error("maxCommits=0 should not be in overrides")
	}
	if _, ok := m["maxGroups"]; ok {
		t.Error("maxGroups=0 should not be in overrides")
	}
}

// --- date parsing tests ---

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-04")
	if err != nil {
		t.Fatalf("parseDate returned error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 4 {
		t.Errorf("parseDate(2026-03-04) = %v", d)
	}

	if _, err := parseDate("03/04/2026"); err == nil {
		t.Error("parseDate should reject non-ISO dates")
	}
}

func TestParseDateRange(t *testing.T) {
	since, until, err := parseDateRange("", "")
	if err != nil {
		t.Fatalf("empty range returned error: %v", err)
	}
	if !since.IsZero() || !until.IsZero() {
		t.Errorf("empty range = %v, %v, want zero times", since, until)
	}

	since, until, err = parseDateRange("2026-01-02", "2026-02-03")
	if err != nil {
		t.Fatalf("valid range returned error: %v", err)
	}
	if since.Day() != 2 || until.Day() != 3 {
		t.Errorf("range = %v, %v", since, until)
	}

	if _, _, err := parseDateRange("bad", ""); err == nil {
		t.Error("invalid since should return error")
	}
	if _, _, err := parseDateRange("", "bad"); err == nil {
		t.Error("invalid until should return error")
	}
}

// --- issue state parsing tests ---

func TestParseIssueState(t *testing.T) {
	tests := []struct {
		input   string
		want    issues.State
		wantErr bool
	}{
		{"open", issues.StateOpen, false},
		{"closed", issues.StateClosed, false},
		{"all", issues.StateAll, false},
		{"", issues.StateAll, false},
		{"weird", "", true},
	}

	for _, tt := range tests {
		got, err := parseIssueState(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseIssueState(%q) should return error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIssueState(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("parseIssueState(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// --- exit code mapping tests ---

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"repo not found", fmt.Errorf("%w: /nope", gitlog.ErrRepoNotFound), ExitVCSError},
		{"read error", &gitlog.ReadError{Repo: ".", Err: errors.New("boom")}, ExitVCSError},
		{"generic error", errors.New("anything else"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitRuntimeError", ExitRuntimeError, 1},
		{"ExitConfigError", ExitConfigError, 2},
		{"ExitVCSError", ExitVCSError, 3},
		{"ExitAuthError", ExitAuthError, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

// --- model resolution tests ---

func TestResolveModel_FlagBeatsBotEnv(t *testing.T) {
	resetFlags()
	t.Setenv("GITBOT_MODEL", "env-model")
	flagModel = "flag-model"
	// --model lands in cfg.Model through the overrides.
	cfg := config.Config{Model: "flag-model"}

	if got := resolveModel(cfg, "gitbot"); got != "flag-model" {
		t.Errorf("resolveModel = %q, want flag-model", got)
	}
}

func TestResolveModel_BotEnvWinsWithoutFlag(t *testing.T) {
	resetFlags()
	t.Setenv("GITBOT_MODEL", "env-model")
	cfg := config.Config{Model: "cfg-model"}

	if got := resolveModel(cfg, "gitbot"); got != "env-model" {
		t.Errorf("resolveModel = %q, want env-model", got)
	}
}

func TestResolveModel_FallsBackToConfig(t *testing.T) {
	resetFlags()
	t.Setenv("GITBOT_MODEL", "")
	cfg := config.Config{Model: "cfg-model"}

	if got := resolveModel(cfg, "gitbot"); got != "cfg-model" {
		t.Errorf("resolveModel = %q, want cfg-model", got)
	}
}

// --- version command tests ---

func TestVersionCmd_Execute(t *testing.T) {
	versionCmd.SetArgs([]string{})
	if err := versionCmd.Execute(); err != nil {
		t.Errorf("version command returned error: %v", err)
	}
}

func TestVersionConstant(t *testing.T) {
	if version == "" {
		t.Error("version constant is empty")
	}
}

// --- models command tests ---

func TestModelsListCmd_Execute(t *testing.T) {
	modelsCmd.SetArgs([]string{"list"})
	if err := modelsCmd.Execute(); err != nil {
		t.Errorf("models list command returned error: %v", err)
	}
}

func TestKnownModels_AllProviders(t *testing.T) {
	providers := map[string]bool{
		"anthropic": false,
		"openai":    false,
		"ollama":    false,
	}

	for _, info := range knownModels {
		if _, ok := providers[info.Provider]; !ok {
			t.Errorf("knownModels lists %q, which providers.New cannot build", info.Provider)
			continue
		}
		providers[info.Provider] = true
		if len(info.Models) == 0 {
			t.Errorf("provider %s has no models", info.Provider)
		}
	}

	for provider, found := range providers {
		if !found {
			t.Errorf("expected provider %q not found in knownModels", provider)
		}
	}
}

// --- config command tests ---

func TestConfigInit_CreatesFile(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, "devbots", "config.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config init did not create config.json")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("cannot read config file: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid JSON: %v", err)
	}
	if cfg.Provider == "" {
		t.Error("config file has empty provider")
	}
}

func TestConfigInit_AlreadyExists(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfgDir := filepath.Join(tmpDir, "devbots")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(`{"provider":"openai"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init with existing file returned error: %v", err)
	}

	// Verify original content is preserved (not overwritten)
	data, err := os.ReadFile(filepath.Join(cfgDir, "config.json"))
	if err != nil {
		t.Fatalf("cannot read config file: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("config init overwrote existing file: provider = %q, want %q", cfg.Provider, "openai")
	}
}

func TestConfigSet_UpdatesFile(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configCmd.SetArgs([]string{"set", "provider", "openai"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, "devbots", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("cannot read config file: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid JSON: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want %q", cfg.Provider, "openai")
	}
}

func TestConfigSet_InvalidKey(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configCmd.SetArgs([]string{"set", "unknownKey", "value"})
	if err := configCmd.Execute(); err == nil {
		t.Error("config set with invalid key should return error")
	}
}

func TestConfigSet_MissingArgs(t *testing.T) {
	resetFlags()

	configCmd.SetArgs([]string{"set", "provider"})
	if err := configCmd.Execute(); err == nil {
		t.Error("config set with 1 arg should return error (requires 2)")
	}
}

func TestConfigShow_Execute(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configCmd.SetArgs([]string{"show"})
	if err := configCmd.Execute(); err != nil {
		t.Errorf("config show returned error: %v", err)
	}
}

// --- cache command tests ---

func TestCacheShow_Execute(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_CACHE_HOME", tmpDir)

	cacheCmd.SetArgs([]string{"show"})
	if err := cacheCmd.Execute(); err != nil {
		t.Errorf("cache show returned error: %v", err)
	}
}

func TestCacheClear_Execute(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_CACHE_HOME", tmpDir)

	// Create a fake cache entry
	cacheDir := filepath.Join(tmpDir, "devbots")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "abc123.json"), []byte(`{"key":"test"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cacheCmd.SetArgs([]string{"clear"})
	if err := cacheCmd.Execute(); err != nil {
		t.Errorf("cache clear returned error: %v", err)
	}

	// Verify cache entry was removed
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("cannot read cache dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			t.Errorf("cache clear did not remove %s", e.Name())
		}
	}
}

// --- projects command tests ---

func TestProjectsAddListRemove(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	regPath := filepath.Join(tmpDir, "projects.json")
	projDir := filepath.Join(tmpDir, "proj")
	if err := os.MkdirAll(projDir, 0o755); err != nil {
		t.Fatal(err)
	}

	projectsCmd.SetArgs([]string{"add", "demo", projDir, "--registry", regPath, "--description", "Demo project"})
	if err := projectsCmd.Execute(); err != nil {
		t.Fatalf("projects add returned error: %v", err)
	}

	reg, err := registry.Load(regPath)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	p, ok := reg.Get("demo")
	if !ok {
		t.Fatal("added project not found in registry")
	}
	if p.Path != projDir {
		t.Errorf("project path = %q, want %q", p.Path, projDir)
	}
	if p.Description != "Demo project" {
		t.Errorf("project description = %q", p.Description)
	}
	if p.Scope != registry.ScopeTeam {
		t.Errorf("project scope = %q, want team", p.Scope)
	}

	resetFlags()
	projectsCmd.SetArgs([]string{"list", "--registry", regPath})
	if err := projectsCmd.Execute(); err != nil {
		t.Errorf("projects list returned error: %v", err)
	}

	resetFlags()
	projectsCmd.SetArgs([]string{"remove", "demo", "--registry", regPath})
	if err := projectsCmd.Execute(); err != nil {
		t.Fatalf("projects remove returned error: %v", err)
	}

	reg, err = registry.Load(regPath)
	if err != nil {
		t.Fatalf("reloading registry: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("registry still has %d project(s) after remove", reg.Len())
	}
}

func TestProjectsAdd_Duplicate(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	regPath := filepath.Join(tmpDir, "projects.json")
	projDir := filepath.Join(tmpDir, "proj")
	if err := os.MkdirAll(projDir, 0o755); err != nil {
		t.Fatal(err)
	}

	projectsCmd.SetArgs([]string{"add", "demo", projDir, "--registry", regPath})
	if err := projectsCmd.Execute(); err != nil {
		t.Fatalf("first add returned error: %v", err)
	}

	resetFlags()
	projectsCmd.SetArgs([]string{"add", "demo", projDir, "--registry", regPath})
	if err := projectsCmd.Execute(); err == nil {
		t.Error("adding a duplicate project should return an error")
	}
}

func TestProjectsAdd_InvalidScope(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	regPath := filepath.Join(tmpDir, "projects.json")
	projDir := filepath.Join(tmpDir, "proj")
	if err := os.MkdirAll(projDir, 0o755); err != nil {
		t.Fatal(err)
	}

	projectsCmd.SetArgs([]string{"add", "demo", projDir, "--registry", regPath, "--scope", "squad"})
	if err := projectsCmd.Execute(); err == nil {
		t.Error("invalid scope should return an error")
	}
}

func TestProjectsRemove_Unknown(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	regPath := filepath.Join(tmpDir, "projects.json")

	projectsCmd.SetArgs([]string{"remove", "ghost", "--registry", regPath})
	if err := projectsCmd.Execute(); err == nil {
		t.Error("removing an unknown project should return an error")
	}
}

func TestIntegrationLabel(t *testing.T) {
	if got := integrationLabel(registry.Project{GitLabProjectID: 42}); got != "GitLab (#42)" {
		t.Errorf("gitlab label = %q", got)
	}
	if got := integrationLabel(registry.Project{GitHubRepo: "acme/site"}); got != "GitHub (acme/site)" {
		t.Errorf("github label = %q", got)
	}
	if got := integrationLabel(registry.Project{}); got != "-" {
		t.Errorf("no tracker label = %q", got)
	}
}

// --- bot command argument validation tests ---

func TestJournalbotRequiresSource(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	journalbotCmd.SetArgs([]string{})
	if err := journalbotCmd.Execute(); err == nil {
		t.Error("journalbot without --dir or --project should return an error")
	}
}

func TestTaskbotRequiresSource(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	taskbotCmd.SetArgs([]string{})
	if err := taskbotCmd.Execute(); err == nil {
		t.Error("taskbot without --file or --project should return an error")
	}
}

func TestHabitbotRequiresSource(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	habitbotCmd.SetArgs([]string{})
	if err := habitbotCmd.Execute(); err == nil {
		t.Error("habitbot without --file or --project should return an error")
	}
}

func TestNotebotRequiresSource(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	notebotCmd.SetArgs([]string{})
	if err := notebotCmd.Execute(); err == nil {
		t.Error("notebot without --dir or --project should return an error")
	}
}

func TestPmbotRequiresTracker(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	pmbotCmd.SetArgs([]string{})
	if err := pmbotCmd.Execute(); err == nil {
		t.Error("pmbot without a tracker should return an error")
	}
}

func TestPmbotRejectsInvalidState(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	pmbotCmd.SetArgs([]string{"--state", "weird", "--gitlab-id", "1"})
	if err := pmbotCmd.Execute(); err == nil {
		t.Error("pmbot with an invalid --state should return an error")
	}
}

func TestRunRequiresProject(t *testing.T) {
	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	runCmd.SetArgs([]string{})
	if err := runCmd.Execute(); err == nil {
		t.Error("run without --project should return an error")
	}
}

func TestRunRejectsUnknownBot(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	regPath := filepath.Join(tmpDir, "projects.json")
	projDir := filepath.Join(tmpDir, "proj")
	if err := os.MkdirAll(projDir, 0o755); err != nil {
		t.Fatal(err)
	}

	reg, err := registry.Load(regPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Add(registry.Project{Name: "demo", Path: projDir}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(); err != nil {
		t.Fatal(err)
	}

	runCmd.SetArgs([]string{"--project", "demo", "--bots", "mysterybot", "--registry", regPath})
	if err := runCmd.Execute(); err == nil {
		t.Error("run with an unknown bot id should return an error")
	}
}

// --- command tree structure tests ---

func TestNotebotCmd_HasImprove(t *testing.T) {
	found := false
	for _, sub := range notebotCmd.Commands() {
		if sub.Name() == "improve" {
			found = true
		}
	}
	if !found {
		t.Error("notebot improve subcommand not found")
	}
}

func TestProjectsCmd_HasSubcommands(t *testing.T) {
	expected := map[string]bool{
		"list":   false,
		"add":    false,
		"remove": false,
	}

	for _, sub := range projectsCmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("projects subcommand %q not found", name)
		}
	}
}

func TestDashboardCmd_HasGenerate(t *testing.T) {
	found := false
	for _, sub := range dashboardCmd.Commands() {
		if sub.Name() == "generate" {
			found = true
		}
	}
	if !found {
		t.Error("dashboard generate subcommand not found")
	}
}
