package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

var (
	flagDir      string
	flagMaxFiles int
)

var journalbotCmd = &cobra.Command{
	Use:   "journalbot",
	Short: "Find patterns in your journal entries",
	Long:  "Journalbot reads dated markdown journal entries and asks the LLM for recurring themes, mood trends, and suggestions.",
	Args:  cobra.NoArgs,
	RunE:  runJournalbot,
}

func init() {
	addBotFlags(journalbotCmd)
	journalbotCmd.Flags().StringVar(&flagDir, "dir", "", "directory of journal entries")
	journalbotCmd.Flags().StringVar(&flagSince, "since", "", "only entries on or after this date (YYYY-MM-DD)")
	journalbotCmd.Flags().StringVar(&flagUntil, "until", "", "only entries on or before this date (YYYY-MM-DD)")
	journalbotCmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "maximum files to read (default 30)")
}

func runJournalbot(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("journalbot needs --dir or --project")
	}

	since, until, err := parseDateRange(flagSince, flagUntil)
	if err != nil {
		return err
	}

	llm, err := newSummarizer(cfg, "journalbot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return nil
	}

	botTitle("journalbot")
	dimColor.Fprintf(os.Stderr, "Journal directory: %s\n", dir)

	var st *store.Store
	if projectName != "" {
		st = openStore(cfg)
	}
	jb := &bots.JournalBot{LLM: llm, Store: st}
	var res bots.Result
	_ = runSpinner("Reading journal entries...", func() error {
		res = jb.Run(cmd.Context(), bots.JournalBotOptions{
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

// parseDateRange parses optional YYYY-MM-DD bounds, leaving an empty
// side as the zero time.
func parseDateRange(sinceRaw, untilRaw string) (since, until time.Time, err error) {
	if sinceRaw != "" {
		if since, err = parseDate(sinceRaw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if untilRaw != "" {
		if until, err = parseDate(untilRaw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return since, until, nil
}
