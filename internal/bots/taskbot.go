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

const taskbotMaxTokens = 1500

const taskbotSystemPrompt = `You are TaskBot, an AI assistant that analyzes personal task lists and to-do files.

Your role is to help the user understand their productivity patterns and prioritize their work.

When analyzing task lists, focus on:
- **Completion rate**: Ratio of done vs pending tasks
- **Stale items**: Tasks that appear overdue or have been sitting too long
- **Priority and urgency**: Which open tasks seem most important
- **Patterns**: Any recurring task types or areas that consistently pile up
- **Recommended next 3 actions**: The most impactful things to do next
- **Items to drop or defer**: Tasks that may no longer be relevant

Format your response as a clear markdown report. Be direct and actionable.
Markdown checkbox syntax: - [x] done, - [ ] pending.
`

// TaskBot analyzes a personal task list file or directory.
type TaskBot struct {
	LLM   providers.Summarizer
	Store *store.Store
	FS    afero.Fs // defaults to the OS filesystem
}

// TaskBotOptions control one analysis run.
type TaskBotOptions struct {
	TaskPath string // a task file or a directory of task files
	Project  string
}

// Run reads the task source and asks for a productivity report.
func (b *TaskBot) Run(ctx context.Context, opts TaskBotOptions) Result {
	read := fileread.ReadTaskFile(botFS(b.FS), opts.TaskPath)
	if read.IsEmpty() {
		msg := fmt.Sprintf("No task content found at %s", opts.TaskPath)
		if len(read.Errors) > 0 {
			msg += ": " + read.Errors[0]
		}
		return Failure("taskbot", msg)
	}

	prompt := fmt.Sprintf("Analyze these task lists and provide productivity insights.\nFiles read: %d\n\n%s\n\nGenerate a task analysis and productivity report.",
		len(read.Entries), fileread.FormatForLLM(read.Entries, fileread.DefaultMaxChars))

	resp, err := b.LLM.Summarize(ctx, providers.Request{
		System:    taskbotSystemPrompt,
		Prompt:    prompt,
		MaxTokens: taskbotMaxTokens,
	})
	if err != nil {
		return Failure("taskbot", "LLM call failed: "+err.Error())
	}

	res := Result{
		Bot:     "taskbot",
		Status:  StatusSuccess,
		Summary: fmt.Sprintf("Analyzed %d task file(s), %d words", len(read.Entries), read.TotalWords()),
		Report:  resp.Text,
		Data: map[string]any{
			"files_read":  len(read.Entries),
			"total_words": read.TotalWords(),
		},
		Timestamp: time.Now().UTC(),
	}
	saveReport(b.Store, &res, opts.Project, "taskbot", resp.Text)
	return res
}
