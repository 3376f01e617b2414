package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes are deterministic so wrappers and cron jobs can branch on
// them.
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
	ExitConfigError  = 2
	ExitVCSError     = 3
	ExitAuthError    = 4
)

var rootCmd = &cobra.Command{
	Use:   "devbots",
	Short: "LLM agents that report on your projects",
	Long:  "DevBots runs a team of LLM-backed agents that turn project activity (commits, issues, notes, tasks, habits) into markdown reports.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(gitbotCmd)
	rootCmd.AddCommand(qabotCmd)
	rootCmd.AddCommand(pmbotCmd)
	rootCmd.AddCommand(journalbotCmd)
	rootCmd.AddCommand(taskbotCmd)
	rootCmd.AddCommand(habitbotCmd)
	rootCmd.AddCommand(notebotCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitConfigError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print devbots version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "devbots version %s\n", version)
	},
}
