package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriter(t *testing.T) {
	run := sampleRun()

	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, run); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if out != run.CombinedReport() {
		t.Error("Markdown output should match the persisted combined report exactly")
	}
	if !strings.Contains(out, "# 🎭 Combined Report — demo") {
		t.Error("Output should contain the combined report heading")
	}
	if !strings.Contains(out, "| Bot | Status | Summary |") {
		t.Error("Output should contain the status table header")
	}
	if !strings.Contains(out, "## 🔍 gitbot") {
		t.Error("Output should contain the per-bot section")
	}
}
