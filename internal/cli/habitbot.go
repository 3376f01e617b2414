package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

var habitbotCmd = &cobra.Command{
	Use:   "habitbot",
	Short: "Review your habit log",
	Long:  "Habitbot reads a habit tracking file and asks the LLM for a consistency report: streaks, slipping habits, and suggestions.",
	Args:  cobra.NoArgs,
	RunE:  runHabitbot,
}

func init() {
	addBotFlags(habitbotCmd)
	habitbotCmd.Flags().StringVar(&flagFile, "file", "", "habit tracking file")
	habitbotCmd.Flags().StringVar(&flagSince, "since", "", "scope the report to habits on or after this date (YYYY-MM-DD)")
	habitbotCmd.Flags().StringVar(&flagUntil, "until", "", "scope the report to habits on or before this date (YYYY-MM-DD)")
}

func runHabitbot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	path := flagFile
	projectName := ""
	if flagProject != "" {
		p, err := lookupProject(cfg, flagProject)
		if err != nil {
			return err
		}
		projectName = p.Name
		if path == "" {
			if p.HabitFile == "" {
				return fmt.Errorf("project %q has no habit file configured", p.Name)
			}
			path = p.HabitFile
		}
	}
	if path == "" {
		return fmt.Errorf("habitbot needs --file or --project")
	}

	since, until, err := parseDateRange(flagSince, flagUntil)
	if err != nil {
		return err
	}

	llm, err := newSummarizer(cfg, "habitbot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	botTitle("habitbot")
	dimColor.Fprintf(os.Stderr, "Habit file: %s\n", path)

	var st *store.Store
	if projectName != "" {
		st = openStore(cfg)
	}
	hb := &bots.HabitBot{LLM: llm, Store: st}
	var res bots.Result
	_ = runSpinner("Reviewing habits...", func() error {
		res = hb.Run(cmd.Context(), bots.HabitBotOptions{
			HabitPath: path,
			Since:     since,
			Until:     until,
			Project:   projectName,
		})
		return nil
	})
	printResult(res)
	return nil
}
