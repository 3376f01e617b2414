// Package providers implements the Summarizer interface for each supported
// LLM provider.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), and Ollama for
// local models.
//
// All providers share a common retry helper with exponential back-off on
// rate limits and transient server errors; authentication failures are
// never retried and are detectable via [IsAuthError]. HTTP clients are
// injected so that tests can redirect calls to local httptest servers
// without making live API requests.
//
// Use [New] to obtain a Summarizer by provider name and model string.
// [WithRedaction] and [WithCache] layer secret stripping and response
// caching over any Summarizer.
package providers
