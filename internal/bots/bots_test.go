package bots

import (
	"context"
	"sync"

	"github.com/spf13/afero"

	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

// fakeLLM records requests and plays back a canned response. Safe for
// concurrent use; orchestrated runs call bots in parallel.
type fakeLLM struct {
	response string
	err      error

	mu       sync.Mutex
	requests []providers.Request
}

func (f *fakeLLM) Summarize(_ context.Context, req providers.Request) (providers.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return providers.Response{}, f.err
	}
	return providers.Response{Text: f.response, Model: "fake-model", TokensUsed: 42}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeLLM) lastRequest() providers.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return providers.Request{}
	}
	return f.requests[len(f.requests)-1]
}

func newMemStore() (*store.Store, afero.Fs) {
	fs := afero.NewMemMapFs()
	return store.New(fs, "data"), fs
}
