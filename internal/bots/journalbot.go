package bots

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/danieluxury88/BotsTeam/internal/fileread"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

const (
	journalbotMaxTokens = 2000
	journalbotMaxFiles  = 30
)

const journalbotSystemPrompt = `You are JournalBot, an AI assistant that analyzes personal journal entries and notes.

Your role is to surface patterns, insights, and actionable takeaways from personal writing.

When analyzing journal entries, focus on:
- **Recurring themes**: Topics, concerns, or ideas that appear across multiple entries
- **Mood and energy patterns**: Emotional tone, stress levels, enthusiasm
- **Key decisions or realizations**: Important moments worth revisiting
- **Progress on goals or projects**: Evidence of growth or stagnation
- **What needs attention**: Unresolved concerns or items to follow up on

Format your response as a clear markdown report with sections. Be empathetic, constructive,
and specific — reference actual content from the entries when relevant. Keep it concise.
`

// JournalBot analyzes personal journal and notes files.
type JournalBot struct {
	LLM   providers.Summarizer
	Store *store.Store
	FS    afero.Fs // defaults to the OS filesystem
}

// JournalBotOptions control one analysis run.
type JournalBotOptions struct {
	NotesDir string
	Since    time.Time
	Until    time.Time
	MaxFiles int // default 30
	Project  string
}

// Run reads the journal directory and asks for a personal insights
// report.
func (b *JournalBot) Run(ctx context.Context, opts JournalBotOptions) Result {
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = journalbotMaxFiles
	}

	read := fileread.ReadMarkdownDir(botFS(b.FS), opts.NotesDir, fileread.ReadOptions{
		Since:    opts.Since,
		Until:    opts.Until,
		MaxFiles: maxFiles,
	})
	if read.IsEmpty() {
		msg := fmt.Sprintf("No markdown files found in %s", opts.NotesDir)
		if len(read.Errors) > 0 {
			msg += ": " + read.Errors[0]
		}
		return Failure("journalbot", msg)
	}

	prompt := fmt.Sprintf("Analyze these journal/notes entries%s.\nFiles read: %d of %d available.\n\n%s\n\nGenerate a personal insights report.",
		dateRangeInfo(opts.Since, opts.Until), len(read.Entries), read.TotalFiles,
		fileread.FormatForLLM(read.Entries, fileread.DefaultMaxChars))

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    journalbotSystemPrompt,
		Prompt:    prompt,
		MaxTokens: journalbotMaxTokens,
	})
	if err != nil {
		return Failure("journalbot", "LLM call failed: "+err.Error())
	}

	summary := fmt.Sprintf("Analyzed %d journal entries", len(read.Entries))
	if start, end, ok := read.DateRange(); ok {
		summary += fmt.Sprintf(" (%s – %s)", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	res := Result{
		Bot:     "journalbot",
		Status:  StatusSuccess,
		Summary: summary,
		Report:  resp.Text,
		Data: map[string]any{
			"files_read":  len(read.Entries),
			"total_files": read.TotalFiles,
			"total_words": read.TotalWords(),
		},
		Timestamp: time.Now().UTC(),
	}
	saveReport(b.Store, &res, opts.Project, "journalbot", resp.Text)
	return res
}

func botFS(fs afero.Fs) afero.Fs {
	if fs == nil {
		return afero.NewOsFs()
	}
	return fs
}

func dateRangeInfo(since, until time.Time) string {
	if since.IsZero() && until.IsZero() {
		return ""
	}
	from := "beginning"
	if !since.IsZero() {
		from = since.Format("2006-01-02")
	}
	to := "now"
	if !until.IsZero() {
		to = until.Format("2006-01-02")
	}
	return fmt.Sprintf(" (from %s to %s)", from, to)
}
