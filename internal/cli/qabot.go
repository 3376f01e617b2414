package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/gitlog"
)

// qabot reads a shorter window than gitbot: testing advice goes stale
// faster than narrative history.
const qabotDefaultCommits = 50

var qabotCmd = &cobra.Command{
	Use:   "qabot",
	Short: "Recommend a testing strategy from recent changes",
	Long:  "Qabot reads recent commit history and asks the LLM where testing effort should go: risk areas, suggested test cases, regression candidates.",
	Args:  cobra.NoArgs,
	RunE:  runQabot,
}

func init() {
	addBotFlags(qabotCmd)
	addHistoryFlags(qabotCmd, qabotDefaultCommits)
}

func runQabot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	filter, err := filterOptions(cfg)
	if err != nil {
		return err
	}

	maxCommits := flagMaxCommits
	if maxCommits <= 0 {
		maxCommits = qabotDefaultCommits
	}

	repoPath := flagRepo
	projectName := ""
	if flagProject != "" {
		p, err := lookupProject(cfg, flagProject)
		if err != nil {
			return err
		}
		projectName = p.Name
		if repoPath == "." && p.Path != "" {
			repoPath = p.Path
		}
	}

	ctx := cmd.Context()
	opts := bots.QABotOptions{
		RepoPath:   repoPath,
		Branch:     flagBranch,
		MaxCommits: maxCommits,
		MaxGroups:  cfg.MaxGroups,
		Since:      flagSince,
		Until:      flagUntil,
		Filter:     filter,
		Project:    projectName,
	}

	if flagDryRun {
		err := printDigest(ctx, gitlog.Options{
			RepoPath:   opts.RepoPath,
			Branch:     opts.Branch,
			MaxCommits: opts.MaxCommits,
			Since:      opts.Since,
			Until:      opts.Until,
		}, filter, opts.MaxGroups)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = exitCodeFor(err)
		}
		return nil
	}

	llm, err := newSummarizer(cfg, "qabot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	botTitle("qabot")
	dimColor.Fprintf(os.Stderr, "Repository: %s\n", repoPath)

	qb := &bots.QABot{LLM: llm}
	var rec bots.Recommendation
	err = runSpinner("Analyzing changes for test impact...", func() error {
		var inner error
		rec, inner = qb.Recommend(ctx, opts)
		return inner
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitCodeFor(err)
		return nil
	}

	fmt.Println(rec.Report)

	if projectName != "" && rec.Commits > 0 {
		latest, _, err := openStore(cfg).SaveReport(projectName, "qabot", rec.Report)
		if err != nil {
			warnColor.Fprintf(os.Stderr, "Warning: could not save report: %v\n", err)
		} else {
			dimColor.Fprintf(os.Stderr, "Report saved to %s\n", latest)
		}
	}
	return nil
}
