package gitlog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilterPolicy extends the built-in noise rules from a YAML file, so the
// denylist can evolve without touching the filtering mechanism.
type FilterPolicy struct {
	BotAuthors         []string `yaml:"bot_authors"`
	ExtraMergePrefixes []string `yaml:"extra_merge_prefixes"`
}

// LoadFilterPolicy loads a policy file from disk. Returns a nil policy and
// nil error if path is empty.
func LoadFilterPolicy(path string) (*FilterPolicy, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filter policy: %w", err)
	}
	var p FilterPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing filter policy: %w", err)
	}
	return &p, nil
}

// Apply merges the policy into opts. Policy authors extend the effective
// denylist rather than replacing it.
func (p *FilterPolicy) Apply(opts FilterOptions) FilterOptions {
	if p == nil {
		return opts
	}
	if len(p.BotAuthors) > 0 {
		base := opts.BotAuthors
		if base == nil {
			base = DefaultBotAuthors()
		}
		merged := make([]string, 0, len(base)+len(p.BotAuthors))
		merged = append(merged, base...)
		merged = append(merged, p.BotAuthors...)
		opts.BotAuthors = merged
	}
	if len(p.ExtraMergePrefixes) > 0 {
		opts.ExtraMergePrefixes = append(opts.ExtraMergePrefixes, p.ExtraMergePrefixes...)
	}
	return opts
}
