package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/output"
)

var (
	flagBots   string
	flagFormat string
	flagOut    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all of a project's bots and combine their reports",
	Long:  "Run executes every bot configured for a project concurrently, saves their reports, and prints a combined summary.",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	addBotFlags(runCmd)
	runCmd.Flags().StringVar(&flagBots, "bots", "", "comma-separated bot ids (default: all bots for the project)")
	runCmd.Flags().IntVar(&flagMaxCommits, "max-commits", 0, "gitbot commit window (default 300)")
	runCmd.Flags().IntVar(&flagMaxIssues, "max-issues", 0, "maximum issues for pmbot")
	runCmd.Flags().StringVar(&flagSince, "since", "", "only commits after this date (passed to git)")
	runCmd.Flags().StringVar(&flagUntil, "until", "", "only commits before this date (passed to git)")
	runCmd.Flags().BoolVar(&flagPlan, "plan", false, "pmbot drafts a sprint plan instead of analyzing")
	runCmd.Flags().StringVar(&flagFormat, "format", "text", "output format (text, json, markdown)")
	runCmd.Flags().StringVar(&flagOut, "out", "", "write output to a file instead of stdout")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	if flagProject == "" {
		return fmt.Errorf("run needs --project")
	}
	project, err := lookupProject(cfg, flagProject)
	if err != nil {
		return err
	}
	if project.GitLabURL == "" {
		project.GitLabURL = cfg.GitLabURL
	}

	if _, err := output.GetWriter(flagFormat); err != nil {
		return err
	}

	ids := splitComma(flagBots)
	for _, id := range ids {
		if _, ok := bots.Lookup(id); !ok {
			return fmt.Errorf("unknown bot %q", id)
		}
	}

	pmMode := bots.ModeAnalyze
	if flagPlan {
		pmMode = bots.ModePlan
	}

	o := &bots.Orchestrator{
		Store:  openStore(cfg),
		NewLLM: newSummarizerFactory(cfg),
	}
	opts := bots.RunOptions{
		Bots:       ids,
		MaxCommits: flagMaxCommits,
		PMMode:     pmMode,
		MaxIssues:  flagMaxIssues,
		Since:      flagSince,
		Until:      flagUntil,
	}

	count := len(ids)
	if count == 0 {
		count = len(bots.BotsFor(project))
	}

	botTitle("orchestrator")
	dimColor.Fprintf(os.Stderr, "Project: %s\n", project.Name)

	var run bots.Run
	_ = runSpinner(fmt.Sprintf("Running %d bot(s)...", count), func() error {
		run = o.RunAll(cmd.Context(), project, opts)
		return nil
	})

	if err := output.WriteRun(&run, flagFormat, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}
	if flagOut != "" {
		dimColor.Fprintf(os.Stderr, "Output written to %s\n", flagOut)
	}
	if !run.OK() {
		exitCode = ExitRuntimeError
	}
	return nil
}
