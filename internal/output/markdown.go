package output

import (
	"io"

	"github.com/danieluxury88/BotsTeam/internal/bots"
)

// MarkdownWriter outputs the combined report markdown, byte-identical to
// the orchestrator report the store persists.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, run *bots.Run) error {
	_, err := io.WriteString(w, run.CombinedReport())
	return err
}
