package providers

import (
	"context"
	"encoding/json"

	"github.com/danieluxury88/BotsTeam/internal/cache"
	"github.com/danieluxury88/BotsTeam/internal/redact"
)

// WithRedaction wraps a Summarizer so prompts are stripped of secrets
// before they leave the process.
func WithRedaction(inner Summarizer) Summarizer {
	return &redacting{inner: inner}
}

type redacting struct {
	inner Summarizer
}

func (r *redacting) Name() string { return r.inner.Name() }

func (r *redacting) Summarize(ctx context.Context, req Request) (Response, error) {
	req.Prompt = redact.Secrets(req.Prompt)
	return r.inner.Summarize(ctx, req)
}

// WithCache wraps a Summarizer with a response cache keyed on provider,
// model, and prompt content. A nil or disabled cache returns inner
// unchanged. Compose WithRedaction outside WithCache so cache keys are
// computed over redacted prompts.
func WithCache(inner Summarizer, c *cache.Cache, model string) Summarizer {
	if c == nil || !c.Enabled() {
		return inner
	}
	return &cached{inner: inner, cache: c, model: model}
}

type cached struct {
	inner Summarizer
	cache *cache.Cache
	model string
}

func (s *cached) Name() string { return s.inner.Name() }

func (s *cached) Summarize(ctx context.Context, req Request) (Response, error) {
	key := cache.BuildCacheKey(s.inner.Name(), s.model, req.System, req.Prompt)
	if raw, ok := s.cache.Get(key); ok {
		var resp Response
		if err := json.Unmarshal([]byte(raw), &resp); err == nil {
			return resp, nil
		}
	}
	resp, err := s.inner.Summarize(ctx, req)
	if err != nil {
		return resp, err
	}
	if data, err := json.Marshal(resp); err == nil {
		_ = s.cache.Put(key, string(data))
	}
	return resp, nil
}
