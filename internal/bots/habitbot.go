package bots

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/danieluxury88/BotsTeam/internal/fileread"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

const habitbotMaxTokens = 1500

const habitbotSystemPrompt = `You are HabitBot, an AI assistant that analyzes personal habit tracking data.

Your role is to surface patterns, celebrate wins, and identify where attention is needed.

When analyzing habit data, focus on:
- **Overall consistency**: What percentage of days is each habit completed?
- **Streaks**: Current and longest streaks for each habit
- **Trends**: Which habits are improving, declining, or steady?
- **Struggling habits**: Habits with low consistency that need attention
- **Strong habits**: Habits that are well-established (celebrate these!)
- **Correlation patterns**: Any habits that tend to co-occur (do well together or fail together)
- **Recommended focus**: 1-2 habits to prioritize for the next week

Format your response as a clear markdown report. Be encouraging and specific.
Use data from the entries when referencing streaks or percentages.
`

// HabitBot analyzes a habit tracking log (CSV or markdown).
type HabitBot struct {
	LLM   providers.Summarizer
	Store *store.Store
	FS    afero.Fs // defaults to the OS filesystem
}

// HabitBotOptions control one analysis run. Since/Until only scope the
// prompt wording; habit logs are read whole.
type HabitBotOptions struct {
	HabitPath string
	Since     time.Time
	Until     time.Time
	Project   string
}

// Run reads the habit log and asks for a consistency report.
func (b *HabitBot) Run(ctx context.Context, opts HabitBotOptions) Result {
	read := fileread.ReadHabitFile(botFS(b.FS), opts.HabitPath)
	if read.IsEmpty() {
		msg := fmt.Sprintf("No habit data found at %s", opts.HabitPath)
		if len(read.Errors) > 0 {
			msg += ": " + read.Errors[0]
		}
		return Failure("habitbot", msg)
	}

	prompt := fmt.Sprintf("Analyze this habit tracking data%s and provide insights on consistency and progress.\n\n%s\n\nGenerate a habit analysis report.",
		dateRangeInfo(opts.Since, opts.Until),
		fileread.FormatForLLM(read.Entries, fileread.DefaultMaxChars))

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    habitbotSystemPrompt,
		Prompt:    prompt,
		MaxTokens: habitbotMaxTokens,
	})
	if err != nil {
		return Failure("habitbot", "LLM call failed: "+err.Error())
	}

	res := Result{
		Bot:     "habitbot",
		Status:  StatusSuccess,
		Summary: fmt.Sprintf("Analyzed habit data from %s", filepath.Base(opts.HabitPath)),
		Report:  resp.Text,
		Data: map[string]any{
			"source_file": opts.HabitPath,
			"total_words": read.TotalWords(),
		},
		Timestamp: time.Now().UTC(),
	}
	saveReport(b.Store, &res, opts.Project, "habitbot", resp.Text)
	return res
}
