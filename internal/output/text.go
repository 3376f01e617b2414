package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/danieluxury88/BotsTeam/internal/bots"
)

// TextWriter outputs a human-readable run summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, run *bots.Run) error {
	ew := &errWriter{w: w}

	ew.printf("DevBots Run — %s\n", run.Project)
	ew.printf("Run %s · %d bot(s) in %s\n", run.ID, len(run.Results), run.Duration.Round(time.Millisecond))
	ew.println(strings.Repeat("─", 60))
	if ew.err != nil {
		return ew.err
	}

	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeader([]string{"Bot", "Status", "Summary"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, res := range run.Results {
		table.Append([]string{res.Bot, string(res.Status), oneLine(res.Summary, 80)})
	}
	table.Render()

	if len(run.Errors) > 0 {
		ew.println("\nErrors:")
		for _, e := range run.Errors {
			ew.printf("  - %s\n", e)
		}
	}

	ew.println(strings.Repeat("─", 60))
	ok := 0
	for _, res := range run.Results {
		if res.OK() {
			ok++
		}
	}
	ew.printf("%d/%d bots succeeded\n", ok, len(run.Results))

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// oneLine collapses s to a single line of at most max runes.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
