package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/gitlog"
)

var gitbotCmd = &cobra.Command{
	Use:   "gitbot",
	Short: "Summarize recent commit history",
	Long:  "Gitbot reads the git log, filters automation noise, groups related commits, and asks the LLM for a development summary.",
	Args:  cobra.NoArgs,
	RunE:  runGitbot,
}

func init() {
	addBotFlags(gitbotCmd)
	addHistoryFlags(gitbotCmd, gitlog.DefaultMaxCommits)
}

func runGitbot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	filter, err := filterOptions(cfg)
	if err != nil {
		return err
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
	opts := bots.GitBotOptions{
		RepoPath:   repoPath,
		Branch:     flagBranch,
		MaxCommits: cfg.MaxCommits,
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

	llm, err := newSummarizer(cfg, "gitbot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	botTitle("gitbot")
	dimColor.Fprintf(os.Stderr, "Repository: %s\n", repoPath)

	gb := &bots.GitBot{LLM: llm}
	var cs bots.ChangeSet
	err = runSpinner("Analyzing commit history...", func() error {
		var inner error
		cs, inner = gb.Changes(ctx, opts)
		return inner
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitCodeFor(err)
		return nil
	}

	fmt.Println(cs.Summary)

	if projectName != "" {
		latest, _, err := openStore(cfg).SaveReport(projectName, "gitbot", cs.Summary)
		if err != nil {
			warnColor.Fprintf(os.Stderr, "Warning: could not save report: %v\n", err)
		} else {
			dimColor.Fprintf(os.Stderr, "Report saved to %s\n", latest)
		}
	}
	return nil
}
