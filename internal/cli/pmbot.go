package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/issues"
	"github.com/danieluxury88/BotsTeam/internal/registry"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

var (
	flagGitLabID   int
	flagGitHubRepo string
	flagPlan       bool
	flagState      string
	flagMaxIssues  int
)

var pmbotCmd = &cobra.Command{
	Use:   "pmbot",
	Short: "Analyze the issue tracker and plan work",
	Long:  "Pmbot fetches issues from GitLab or GitHub and asks the LLM for a backlog health report, or with --plan a sprint plan.",
	Args:  cobra.NoArgs,
	RunE:  runPmbot,
}

func init() {
	addBotFlags(pmbotCmd)
	pmbotCmd.Flags().IntVar(&flagGitLabID, "gitlab-id", 0, "GitLab project ID (ad-hoc, without a registered project)")
	pmbotCmd.Flags().StringVar(&flagGitHubRepo, "github-repo", "", "GitHub repository as owner/name (ad-hoc)")
	pmbotCmd.Flags().BoolVar(&flagPlan, "plan", false, "draft a sprint plan instead of analyzing the backlog")
	pmbotCmd.Flags().StringVar(&flagState, "state", "all", "issue state to fetch (open, closed, all)")
	pmbotCmd.Flags().IntVar(&flagMaxIssues, "max-issues", 0, "maximum issues to fetch")
}

func runPmbot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	state, err := parseIssueState(flagState)
	if err != nil {
		return err
	}

	var project registry.Project
	switch {
	case flagProject != "":
		project, err = lookupProject(cfg, flagProject)
		if err != nil {
			return err
		}
		if project.GitLabURL == "" {
			project.GitLabURL = cfg.GitLabURL
		}
	case flagGitLabID > 0 || flagGitHubRepo != "":
		project = registry.Project{
			GitLabProjectID: flagGitLabID,
			GitLabURL:       cfg.GitLabURL,
			GitHubRepo:      flagGitHubRepo,
		}
	default:
		return fmt.Errorf("pmbot needs --project, --gitlab-id, or --github-repo")
	}
	if !project.HasGitLab() && !project.HasGitHub() {
		return fmt.Errorf("project %q has no issue tracker configured", project.Name)
	}

	llm, err := newSummarizer(cfg, "pmbot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	ctx := cmd.Context()
	botTitle("pmbot")

	var set issues.Set
	err = runSpinner("Fetching issues...", func() error {
		var inner error
		set, inner = fetchIssues(ctx, project, state, flagMaxIssues)
		return inner
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errTrackerAuth) {
			exitCode = ExitAuthError
		} else {
			exitCode = ExitRuntimeError
		}
		return nil
	}
	dimColor.Fprintf(os.Stderr, "Fetched %d issue(s) from %s\n", len(set.Issues), set.ProjectName)

	mode := bots.ModeAnalyze
	if flagPlan {
		mode = bots.ModePlan
	}

	var st *store.Store
	if flagProject != "" {
		st = openStore(cfg)
	}
	pm := &bots.PMBot{LLM: llm, Store: st}

	var res bots.Result
	_ = runSpinner("Analyzing issues...", func() error {
		res = pm.Run(ctx, set, mode, flagProject)
		return nil
	})

	printResult(res)
	return nil
}

// errTrackerAuth marks a missing tracker credential so the command can
// exit with the auth code.
var errTrackerAuth = errors.New("tracker token is not set")

// fetchIssues builds a tracker client for the project and fetches the
// requested window. Unlike the orchestrator path it honors a state
// filter.
func fetchIssues(ctx context.Context, p registry.Project, state issues.State, maxIssues int) (issues.Set, error) {
	switch {
	case p.HasGitLab():
		token := p.ResolveGitLabToken()
		if token == "" {
			return issues.Set{}, fmt.Errorf("%w: set GITLAB_PRIVATE_TOKEN or store one on the project", errTrackerAuth)
		}
		c, err := issues.NewGitLabClient(p.GitLabProjectID, token, p.ResolveGitLabURL())
		if err != nil {
			return issues.Set{}, err
		}
		return c.FetchIssues(ctx, state, maxIssues)
	case p.HasGitHub():
		token := p.ResolveGitHubToken()
		if token == "" {
			return issues.Set{}, fmt.Errorf("%w: set GITHUB_TOKEN or store one on the project", errTrackerAuth)
		}
		c, err := issues.NewGitHubClient(p.GitHubRepo, token, p.ResolveGitHubAPIURL())
		if err != nil {
			return issues.Set{}, err
		}
		return c.FetchIssues(ctx, state, maxIssues)
	}
	return issues.Set{}, fmt.Errorf("project %q has no issue tracker configured", p.Name)
}

func parseIssueState(s string) (issues.State, error) {
	switch s {
	case "open":
		return issues.StateOpen, nil
	case "closed":
		return issues.StateClosed, nil
	case "all", "":
		return issues.StateAll, nil
	}
	return "", fmt.Errorf("invalid state %q (want open, closed, or all)", s)
}
