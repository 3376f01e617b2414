package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/redact"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

var flagWrite bool

var notebotCmd = &cobra.Command{
	Use:   "notebot",
	Short: "Analyze and improve markdown notes",
	Long:  "Notebot reads a directory of markdown notes and asks the LLM for a structured analysis. The improve subcommand rewrites a single note for clarity.",
	Args:  cobra.NoArgs,
	RunE:  runNotebotAnalyze,
}

var notebotImproveCmd = &cobra.Command{
	Use:   "improve <file>",
	Short: "Rewrite a note for clarity and structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotebotImprove,
}

func init() {
	addBotFlags(notebotCmd)
	notebotCmd.Flags().StringVar(&flagDir, "dir", "", "directory of markdown notes")
	notebotCmd.Flags().StringVar(&flagSince, "since", "", "only notes on or after this date (YYYY-MM-DD)")
	notebotCmd.Flags().StringVar(&flagUntil, "until", "", "only notes on or before this date (YYYY-MM-DD)")
	notebotCmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "maximum files to read (default 50)")

	notebotImproveCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, ollama)")
	notebotImproveCmd.Flags().StringVar(&flagModel, "model", "", "model name (overrides config and per-bot env)")
	notebotImproveCmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "disable secret redaction (dangerous)")
	notebotImproveCmd.Flags().BoolVar(&flagWrite, "write", false, "write the improved note back to the file")
	notebotCmd.AddCommand(notebotImproveCmd)
}

func runNotebotAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	dir := flagDir
	projectName := ""
	if flagProject != "" {
		p, err := lookupProject(cfg, flagProject)
		if err != nil {
			return err
		}
		projectName = p.Name
		if dir == "" {
			dir = p.NotesDir
			if dir == "" {
				dir = p.Path
			}
		}
	}
	if dir == "" {
		return fmt.Errorf("notebot needs --dir or --project")
	}

	since, until, err := parseDateRange(flagSince, flagUntil)
	if err != nil {
		return err
	}

	llm, err := newSummarizer(cfg, "notebot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	botTitle("notebot")
	dimColor.Fprintf(os.Stderr, "Notes directory: %s\n", dir)

	var st *store.Store
	if projectName != "" {
		st = openStore(cfg)
	}
	nb := &bots.NoteBot{LLM: llm, Store: st}
	var res bots.Result
	_ = runSpinner("Reading notes...", func() error {
		res = nb.Run(cmd.Context(), bots.NoteBotOptions{
			NotesDir: dir,
			Since:    since,
			Until:    until,
			MaxFiles: flagMaxFiles,
			Project:  projectName,
		})
		return nil
	})
	printResult(res)
	return nil
}

func runNotebotImprove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	applyNoRedact(&cfg)

	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}
	content := redact.Content(string(raw), path, cfg.Privacy.RedactPaths)

	llm, err := newSummarizer(cfg, "notebot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	nb := &bots.NoteBot{LLM: llm}
	var res bots.Result
	_ = runSpinner("Improving note...", func() error {
		res = nb.Improve(cmd.Context(), content, filepath.Base(path))
		return nil
	})
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Error: %s\n", res.Summary)
		exitCode = ExitRuntimeError
		return nil
	}

	if flagWrite {
		if err := os.WriteFile(path, []byte(res.Report+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", path, err)
			exitCode = ExitRuntimeError
			return nil
		}
		successColor.Fprintf(os.Stderr, "✓ Improved note written to %s\n", path)
		return nil
	}
	fmt.Println(res.Report)
	return nil
}
