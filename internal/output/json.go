package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danieluxury88/BotsTeam/internal/bots"
)

// JSONWriter outputs the full run as JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, run *bots.Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
