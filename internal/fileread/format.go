package fileread

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// DefaultMaxChars bounds the text block handed to the LLM.
	DefaultMaxChars = 12000

	// habitRecentRows is how many trailing CSV rows the habit log keeps.
	habitRecentRows = 30
)

// FormatForLLM renders entries into one text block for a prompt, each
// under a "--- filename (date) ---" header. Entries are consumed in
// order, so callers pass them newest first; once the budget runs out
// the current entry is cut with a truncation marker and the rest are
// dropped.
func FormatForLLM(entries []Entry, maxChars int) string {
	if len(entries) == 0 {
		return "(no content)"
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var sections []string
	total := 0

	for _, entry := range entries {
		header := fmt.Sprintf("\n--- %s (%s) ---\n", entry.Filename, entry.Modified.Format("2006-01-02"))
		section := header + strings.TrimSpace(entry.Content) + "\n"

		if total+len(section) > maxChars {
			remaining := maxChars - total - len(header) - 50
			if remaining > 200 {
				cut := strings.TrimSpace(cutAtRune(entry.Content, remaining))
				sections = append(sections, header+cut+"\n...(truncated)")
			}
			break
		}

		sections = append(sections, section)
		total += len(section)
	}

	return strings.TrimSpace(strings.Join(sections, "\n"))
}

// cutAtRune truncates s to at most n bytes without splitting a rune.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// formatHabitCSV renders a habit CSV to text: the tracked habit names,
// the row count, and the most recent rows as "column: value" lines.
// The first column is expected to be the date.
func formatHabitCSV(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Sprintf("Could not parse CSV: %v", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Sprintf("Could not parse CSV: %v", err)
	}
	if len(records) < 2 {
		return "No habit data found."
	}

	headers := records[0]
	rows := records[1:]

	var b strings.Builder
	b.WriteString("Habit tracking data:\n\n")
	if len(headers) > 1 {
		b.WriteString("Habits tracked: " + strings.Join(headers[1:], ", ") + "\n")
	}
	fmt.Fprintf(&b, "Total days logged: %d\n\n", len(rows))

	if omitted := len(rows) - habitRecentRows; omitted > 0 {
		fmt.Fprintf(&b, "… %d earlier rows omitted\n", omitted)
		rows = rows[omitted:]
	}

	b.WriteString("Recent entries:")
	for _, row := range rows {
		var parts []string
		for i, h := range headers {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				parts = append(parts, h+": "+row[i])
			}
		}
		b.WriteString("\n  " + strings.Join(parts, " | "))
	}

	return b.String()
}
