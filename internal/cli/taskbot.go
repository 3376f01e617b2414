package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

var flagFile string

var taskbotCmd = &cobra.Command{
	Use:   "taskbot",
	Short: "Review your task list",
	Long:  "Taskbot reads a markdown task file (or a directory of them) and asks the LLM for a productivity review: completion rate, stuck items, priorities.",
	Args:  cobra.NoArgs,
	RunE:  runTaskbot,
}

func init() {
	addBotFlags(taskbotCmd)
	taskbotCmd.Flags().StringVar(&flagFile, "file", "", "task file or directory of task files")
}

func runTaskbot(cmd *cobra.Command, args []string) error {
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
			path = p.TaskFile
			if path == "" {
				path = p.Path
			}
		}
	}
	if path == "" {
		return fmt.Errorf("taskbot needs --file or --project")
	}

	llm, err := newSummarizer(cfg, "taskbot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	botTitle("taskbot")
	dimColor.Fprintf(os.Stderr, "Task source: %s\n", path)

	var st *store.Store
	if projectName != "" {
		st = openStore(cfg)
	}
	tb := &bots.TaskBot{LLM: llm, Store: st}
	var res bots.Result
	_ = runSpinner("Reviewing tasks...", func() error {
		res = tb.Run(cmd.Context(), bots.TaskBotOptions{
			TaskPath: path,
			Project:  projectName,
		})
		return nil
	})
	printResult(res)
	return nil
}
