//go:build integration

package providers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// providerSpec defines a provider to test against its live API.
type providerSpec struct {
	name   string
	model  string
	envVar string // env var that must be set (empty for ollama)
}

var providerSpecs = []providerSpec{
	{"anthropic", defaultAnthropicModel, "ANTHROPIC_API_KEY"},
	{"openai", defaultOpenAIModel, "OPENAI_API_KEY"},
	{"ollama", defaultOllamaModel, ""},
}

func skipIfEnvMissing(t *testing.T, envVar string) {
	t.Helper()
	if envVar == "" {
		return // no env var needed (e.g. ollama)
	}
	if os.Getenv(envVar) == "" {
		t.Skipf("skipping: %s not set", envVar)
	}
}

func skipIfOllamaUnavailable(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost:11434/api/tags", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Skipf("skipping: ollama not reachable: %v", err)
	}
	resp.Body.Close()
}

func integrationContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)
	return ctx
}

const commitActivity = `
## Author: alice (2026-03-10) — 3 commit(s)
Authors: alice
Areas touched: internal (2), cmd (1)
  [a1b2c3d] add retry to provider calls
  [e4f5a6b] fix config merge order
  [c7d8e9f] wire dashboard server flag

## Author: bob (2026-03-10) — 1 commit(s)
Authors: bob
  [f0a1b2c] bump go-gitlab client
`

// TestIntegration_Provider_Summarize verifies that each provider returns
// non-empty text and a token count for a simple prompt.
func TestIntegration_Provider_Summarize(t *testing.T) {
	for _, spec := range providerSpecs {
		spec := spec
		t.Run(spec.name, func(t *testing.T) {
			t.Parallel()
			skipIfEnvMissing(t, spec.envVar)
			if spec.name == "ollama" {
				skipIfOllamaUnavailable(t)
			}

			ctx := integrationContext(t)

			provider, err := New(spec.name, spec.model)
			if err != nil {
				t.Fatalf("New(%s, %s): %v", spec.name, spec.model, err)
			}

			resp, err := provider.Summarize(ctx, Request{
				System:    "You are a helpful assistant.",
				Prompt:    "Reply with exactly: HELLO INTEGRATION TEST",
				MaxTokens: 256,
			})
			if err != nil {
				t.Fatalf("Summarize() error: %v", err)
			}

			if resp.Text == "" {
				t.Fatal("expected non-empty response text")
			}
			if !strings.Contains(strings.ToUpper(resp.Text), "HELLO") {
				t.Logf("warning: response did not contain HELLO: %s", resp.Text)
			}
			t.Logf("provider=%s tokens=%d text_len=%d", spec.name, resp.TokensUsed, len(resp.Text))
		})
	}
}

// TestIntegration_Provider_ActivitySummary feeds each provider a grouped
// commit block and checks that it produces a plausible narrative summary.
// Content is validated loosely because LLMs are non-deterministic.
func TestIntegration_Provider_ActivitySummary(t *testing.T) {
	for _, spec := range providerSpecs {
		spec := spec
		t.Run(spec.name, func(t *testing.T) {
			t.Parallel()
			skipIfEnvMissing(t, spec.envVar)
			if spec.name == "ollama" {
				skipIfOllamaUnavailable(t)
			}

			ctx := integrationContext(t)

			provider, err := New(spec.name, spec.model)
			if err != nil {
				t.Fatalf("New(%s, %s): %v", spec.name, spec.model, err)
			}

			resp, err := provider.Summarize(ctx, Request{
				System:    "You are a development activity analyst. Summarize commit activity in plain prose, two or three sentences.",
				Prompt:    "Summarize the following commit activity:\n" + commitActivity,
				MaxTokens: 1024,
			})
			if err != nil {
				t.Fatalf("Summarize() error: %v", err)
			}

			if len(resp.Text) < 40 {
				t.Errorf("summary suspiciously short: %q", resp.Text)
			}
			lower := strings.ToLower(resp.Text)
			if !strings.Contains(lower, "alice") && !strings.Contains(lower, "commit") {
				t.Logf("warning: summary mentions neither author nor commits: %s", resp.Text)
			}
			t.Logf("provider=%s tokens=%d summary=%s", spec.name, resp.TokensUsed, resp.Text)
		})
	}
}
