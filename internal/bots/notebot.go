package bots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/danieluxury88/BotsTeam/internal/fileread"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

const (
	notebotMaxTokens = 2000
	notebotMaxFiles  = 50
)

const notebotSystemPrompt = `You are NoteBot, an expert knowledge manager and personal assistant.

Your role is to analyse a collection of markdown notes and surface actionable insights.

When analysing notes, cover these sections:
1. **Summary** — a concise overview of the notes collection (topic coverage, volume, recency)
2. **Key Themes** — the main subjects and recurring topics across the notes
3. **Action Items** — TODOs, decisions pending, follow-ups, or tasks mentioned in the notes (cite the note filename)
4. **Organisation Suggestions** — how to better structure, group, tag, or merge the notes; identify duplicates or closely related notes
5. **Knowledge Gaps** — topics referenced but not fully documented; areas where additional notes would add value

Format your response as clean markdown with these exact section headings.
Be specific — reference actual note filenames and content when relevant. Keep it concise and actionable.
`

const notebotImproveSystemPrompt = `You are an expert technical writer and knowledge manager.
Your job is to improve a single markdown note to make it clearer, better structured, and more useful.

Guidelines:
- Preserve all factual content and intent — do not add or remove information
- Improve headings, formatting, and structure
- Add an appropriate title if missing
- Use bullet lists, numbered lists, or tables where they improve clarity
- Add a brief summary at the top if the note is long
- Fix grammar and spelling
- Add section headings for long notes

Return ONLY the improved markdown text — no preamble, no explanation, no metadata.
`

// NoteBot analyzes a notes collection and can rewrite single notes.
type NoteBot struct {
	LLM   providers.Summarizer
	Store *store.Store
	FS    afero.Fs // defaults to the OS filesystem
}

// NoteBotOptions control one analysis run.
type NoteBotOptions struct {
	NotesDir string
	Since    time.Time
	Until    time.Time
	MaxFiles int // default 50
	Project  string
}

// Run reads the notes directory and asks for a structured analysis.
func (b *NoteBot) Run(ctx context.Context, opts NoteBotOptions) Result {
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = notebotMaxFiles
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
		return Failure("notebot", msg)
	}

	prompt := fmt.Sprintf("Analyse these notes%s.\nFiles read: %d of %d available.\nTotal words: %d\n\n%s\n\nGenerate a structured notes analysis report.",
		dateRangeInfo(opts.Since, opts.Until), len(read.Entries), read.TotalFiles, read.TotalWords(),
		fileread.FormatForLLM(read.Entries, fileread.DefaultMaxChars))

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    notebotSystemPrompt,
		Prompt:    prompt,
		MaxTokens: notebotMaxTokens,
	})
	if err != nil {
		return Failure("notebot", "LLM call failed: "+err.Error())
	}

	summary := fmt.Sprintf("Analysed %d notes (%d words)", len(read.Entries), read.TotalWords())
	if start, end, ok := read.DateRange(); ok {
		summary += fmt.Sprintf(" — %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	res := Result{
		Bot:     "notebot",
		Status:  StatusSuccess,
		Summary: summary,
		Report:  resp.Text,
		Data: map[string]any{
			"files_read":  len(read.Entries),
			"total_files": read.TotalFiles,
			"total_words": read.TotalWords(),
			"mode":        "analyze",
		},
		Timestamp: time.Now().UTC(),
	}
	saveReport(b.Store, &res, opts.Project, "notebot", resp.Text)
	return res
}

// Improve rewrites a single note for clarity and structure.
func (b *NoteBot) Improve(ctx context.Context, content, title string) Result {
	if content == "" {
		return Failure("notebot", "No note content provided for improve mode.")
	}
	improved := b.improveText(ctx, content, title)
	label := title
	if label == "" {
		label = "untitled"
	}
	return Result{
		Bot:       "notebot",
		Status:    StatusSuccess,
		Summary:   fmt.Sprintf("Improved note: %s", label),
		Report:    improved,
		Data:      map[string]any{"mode": "improve", "note": title},
		Timestamp: time.Now().UTC(),
	}
}

// improveText returns the rewritten note, or the original content when
// the LLM call fails.
func (b *NoteBot) improveText(ctx context.Context, content, title string) string {
	titleHint := ""
	if title != "" {
		titleHint = fmt.Sprintf("Note title/filename: %s\n\n", title)
	}
	body := content
	if body == "" {
		body = "(empty note)"
	}
	prompt := fmt.Sprintf("%sCurrent content:\n\n%s\n\nReturn only the improved markdown.", titleHint, body)

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    notebotImproveSystemPrompt,
		Prompt:    prompt,
		MaxTokens: notebotMaxTokens,
	})
	if err != nil {
		return content
	}
	return strings.TrimSpace(resp.Text)
}
