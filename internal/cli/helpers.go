package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/bots"
	"github.com/danieluxury88/BotsTeam/internal/cache"
	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/gitlog"
	"github.com/danieluxury88/BotsTeam/internal/providers"
	"github.com/danieluxury88/BotsTeam/internal/registry"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

// Flags shared across the bot commands. Every registration of a shared
// flag uses the same zero default; per-command defaults are applied in
// the command body so the variables never disagree.
var (
	flagProvider string
	flagModel    string
	flagProject  string
	flagRegistry string
	flagNoRedact bool

	flagRepo         string
	flagBranch       string
	flagMaxCommits   int
	flagSince        string
	flagUntil        string
	flagMaxGroups    int
	flagFilterPolicy string
	flagDryRun       bool
)

var (
	titleColor   = color.New(color.FgHiCyan, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	successColor = color.New(color.FgHiGreen)
	warnColor    = color.New(color.FgHiYellow)
)

// addBotFlags registers the flags every bot command accepts.
func addBotFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "model name (overrides config and per-bot env)")
	cmd.Flags().StringVar(&flagProject, "project", "", "registered project name")
	cmd.Flags().StringVar(&flagRegistry, "registry", "", "path to the project registry file")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "disable secret redaction (dangerous)")
}

// addHistoryFlags registers the commit-history flags shared by gitbot
// and qabot. defaultCommits only documents the effective default; the
// flag itself defaults to zero and the command applies the real value.
func addHistoryFlags(cmd *cobra.Command, defaultCommits int) {
	cmd.Flags().StringVar(&flagRepo, "repo", ".", "path to the git repository")
	cmd.Flags().StringVar(&flagBranch, "branch", "", "branch or ref to read (default HEAD)")
	cmd.Flags().IntVar(&flagMaxCommits, "max-commits", 0, fmt.Sprintf("maximum commits to analyze (default %d)", defaultCommits))
	cmd.Flags().StringVar(&flagSince, "since", "", "only commits after this date (passed to git)")
	cmd.Flags().StringVar(&flagUntil, "until", "", "only commits before this date (passed to git)")
	cmd.Flags().IntVar(&flagMaxGroups, "max-groups", 0, "maximum commit groups in the digest")
	cmd.Flags().StringVar(&flagFilterPolicy, "filter-policy", "", "path to a YAML commit filter policy")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the commit digest without calling the LLM")
}

// buildOverrides maps the set flags onto config override keys.
func buildOverrides() map[string]string {
	overrides := map[string]string{}
	if flagProvider != "" {
		overrides["provider"] = flagProvider
	}
	if flagModel != "" {
		overrides["model"] = flagModel
	}
	if flagMaxCommits > 0 {
		overrides["maxCommits"] = strconv.Itoa(flagMaxCommits)
	}
	if flagMaxGroups > 0 {
		overrides["maxGroups"] = strconv.Itoa(flagMaxGroups)
	}
	if flagFilterPolicy != "" {
		overrides["filterPolicy"] = flagFilterPolicy
	}
	if flagRegistry != "" {
		overrides["registryPath"] = flagRegistry
	}
	return overrides
}

// splitComma splits a comma-separated flag value, trimming whitespace
// and dropping empty entries.
func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDate parses a YYYY-MM-DD day boundary for the file-based bots.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// applyNoRedact disables secret redaction when --no-redact was given.
func applyNoRedact(cfg *config.Config) {
	if !flagNoRedact {
		return
	}
	cfg.Privacy.RedactSecrets = false
	fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
}

// resolveModel picks the model for a bot. An explicit --model flag beats
// the per-bot environment override that ModelFor would otherwise honor.
func resolveModel(cfg config.Config, bot string) string {
	if flagModel != "" {
		return cfg.Model
	}
	return config.ModelFor(cfg, bot)
}

// newSummarizerFactory returns a constructor building the provider chain
// for each bot: base provider, response cache, secret redaction. The
// cache is opened once; an unusable cache degrades to uncached operation
// instead of failing the run.
func newSummarizerFactory(cfg config.Config) func(bot string) (providers.Summarizer, error) {
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		warnColor.Fprintf(os.Stderr, "Warning: LLM cache unavailable: %v\n", err)
		c = nil
	}
	return func(bot string) (providers.Summarizer, error) {
		model := resolveModel(cfg, bot)
		p, err := providers.New(cfg.Provider, model)
		if err != nil {
			return nil, err
		}
		llm := providers.WithCache(p, c, model)
		if cfg.Privacy.RedactSecrets {
			llm = providers.WithRedaction(llm)
		}
		return llm, nil
	}
}

// newSummarizer builds the provider chain for a single bot command.
func newSummarizer(cfg config.Config, bot string) (providers.Summarizer, error) {
	return newSummarizerFactory(cfg)(bot)
}

func openStore(cfg config.Config) *store.Store {
	return store.New(afero.NewOsFs(), cfg.DataDir)
}

func openRegistry(cfg config.Config) (*registry.Registry, error) {
	return registry.Load(cfg.RegistryPath)
}

// lookupProject resolves a --project flag against the registry.
func lookupProject(cfg config.Config, name string) (registry.Project, error) {
	reg, err := openRegistry(cfg)
	if err != nil {
		return registry.Project{}, err
	}
	p, ok := reg.Get(name)
	if !ok {
		return registry.Project{}, fmt.Errorf("project %q is not registered (devbots projects add)", name)
	}
	return p, nil
}

// filterOptions resolves the effective commit filter from the configured
// policy file, if any.
func filterOptions(cfg config.Config) (gitlog.FilterOptions, error) {
	policy, err := gitlog.LoadFilterPolicy(cfg.FilterPolicy)
	if err != nil {
		return gitlog.FilterOptions{}, fmt.Errorf("loading filter policy: %w", err)
	}
	return policy.Apply(gitlog.FilterOptions{}), nil
}

// printDigest renders the grouped commit digest without calling the LLM.
// Used by --dry-run to preview exactly what would be sent.
func printDigest(ctx context.Context, opts gitlog.Options, filter gitlog.FilterOptions, maxGroups int) error {
	read, err := gitlog.Read(ctx, opts)
	if err != nil {
		return err
	}
	filtered := gitlog.Filter(read.Commits, filter)
	if len(filtered.Commits) == 0 {
		fmt.Println("No commits found.")
		return nil
	}
	groups := gitlog.GroupCommits(filtered.Commits, maxGroups)
	fmt.Print(gitlog.Render(groups))
	dimColor.Fprintf(os.Stderr, "%d commit(s), %d filtered out, %d group(s)\n",
		len(filtered.Commits), filtered.Removed, len(groups))
	return nil
}

// runSpinner shows a terminal spinner on stderr while fn runs.
func runSpinner(msg string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = " " + msg
	_ = s.Color("cyan")
	s.Start()
	err := fn()
	s.Stop()
	return err
}

// botTitle prints the bot banner on stderr using the canonical icon and
// name from the bot metadata.
func botTitle(id string) {
	if m, ok := bots.Lookup(id); ok {
		titleColor.Fprintf(os.Stderr, "%s %s\n", m.Icon, m.Name)
	}
}

// printResult writes a bot outcome: the report to stdout on success,
// the failure summary to stderr otherwise.
func printResult(res bots.Result) {
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Error: %s\n", res.Summary)
		exitCode = ExitRuntimeError
		return
	}
	fmt.Println(res.Report)
}

// exitCodeFor maps an error to its exit code family: repository read
// failures, provider auth failures, everything else.
func exitCodeFor(err error) int {
	var readErr *gitlog.ReadError
	switch {
	case errors.Is(err, gitlog.ErrRepoNotFound), errors.As(err, &readErr):
		return ExitVCSError
	case providers.IsAuthError(err):
		return ExitAuthError
	default:
		return ExitRuntimeError
	}
}
