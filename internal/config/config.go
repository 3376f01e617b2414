package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the devbots configuration.
type Config struct {
	Provider      string        `json:"provider"`
	Model         string        `json:"model"`
	MaxCommits    int           `json:"maxCommits"`
	MaxGroups     int           `json:"maxGroups"`
	DataDir       string        `json:"dataDir"`
	RegistryPath  string        `json:"registryPath,omitempty"`
	GitLabURL     string        `json:"gitlabUrl,omitempty"`
	GitHubAPIURL  string        `json:"githubApiUrl,omitempty"`
	DashboardPort int           `json:"dashboardPort"`
	FilterPolicy  string        `json:"filterPolicy,omitempty"`
	Cache         CacheConfig   `json:"cache"`
	Privacy       PrivacyConfig `json:"privacy"`
}

// CacheConfig controls LLM response caching.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls secret redaction of prompt content.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:      "anthropic",
		Model:         "claude-haiku-4-5-20251001",
		MaxCommits:    100,
		MaxGroups:     10,
		DataDir:       "data",
		GitLabURL:     "https://gitlab.com",
		DashboardPort: 8080,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for devbots.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "devbots"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "devbots"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "devbots"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "devbots"), nil
	default:
		return filepath.Join(home, ".config", "devbots"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

// ModelFor resolves the model for one bot: a per-bot environment override
// such as GITBOT_MODEL or PMBOT_MODEL wins over the configured model.
func ModelFor(cfg Config, bot string) string {
	env := strings.ToUpper(strings.ReplaceAll(bot, "-", "_")) + "_MODEL"
	if v := os.Getenv(env); v != "" {
		return v
	}
	return cfg.Model
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.MaxCommits > 0 {
		dst.MaxCommits = src.MaxCommits
	}
	if src.MaxGroups > 0 {
		dst.MaxGroups = src.MaxGroups
	}
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.RegistryPath != "" {
		dst.RegistryPath = src.RegistryPath
	}
	if src.GitLabURL != "" {
		dst.GitLabURL = src.GitLabURL
	}
	if src.GitHubAPIURL != "" {
		dst.GitHubAPIURL = src.GitHubAPIURL
	}
	if src.DashboardPort > 0 {
		dst.DashboardPort = src.DashboardPort
	}
	if src.FilterPolicy != "" {
		dst.FilterPolicy = src.FilterPolicy
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// JSON zero for bool can't be told apart from unset, so the file merge
	// can only enable these. Disabling happens via flags.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("DEVBOTS_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("DEVBOTS_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("DEVBOTS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DEVBOTS_REGISTRY"); v != "" {
		cfg.RegistryPath = v
	}
	if v := os.Getenv("DEVBOTS_FILTER_POLICY"); v != "" {
		cfg.FilterPolicy = v
	}
	if v := os.Getenv("GITLAB_URL"); v != "" {
		cfg.GitLabURL = v
	}
	if v := os.Getenv("GITHUB_API_URL"); v != "" {
		cfg.GitHubAPIURL = v
	}
	if v := os.Getenv("DEVBOTS_MAX_COMMITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEVBOTS_MAX_COMMITS must be an integer: %w", err)
		}
		cfg.MaxCommits = n
	}
	if v := os.Getenv("DEVBOTS_MAX_GROUPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEVBOTS_MAX_GROUPS must be an integer: %w", err)
		}
		cfg.MaxGroups = n
	}
	if v := os.Getenv("DEVBOTS_DASHBOARD_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEVBOTS_DASHBOARD_PORT must be an integer: %w", err)
		}
		cfg.DashboardPort = n
	}
	// OPENAI_MODEL only applies when the effective provider is openai.
	if cfg.Provider == "openai" {
		if v := os.Getenv("OPENAI_MODEL"); v != "" {
			cfg.Model = v
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["dataDir"]; ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := overrides["registryPath"]; ok && v != "" {
		cfg.RegistryPath = v
	}
	if v, ok := overrides["gitlabUrl"]; ok && v != "" {
		cfg.GitLabURL = v
	}
	if v, ok := overrides["githubApiUrl"]; ok && v != "" {
		cfg.GitHubAPIURL = v
	}
	if v, ok := overrides["filterPolicy"]; ok && v != "" {
		cfg.FilterPolicy = v
	}
	if v, ok := overrides["cacheDir"]; ok && v != "" {
		cfg.Cache.Dir = v
	}
	if v, ok := overrides["maxCommits"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxCommits = n
		}
	}
	if v, ok := overrides["maxGroups"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxGroups = n
		}
	}
	if v, ok := overrides["dashboardPort"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DashboardPort = n
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "dataDir":
		cfg.DataDir = value
	case "registryPath":
		cfg.RegistryPath = value
	case "gitlabUrl":
		cfg.GitLabURL = value
	case "githubApiUrl":
		cfg.GitHubAPIURL = value
	case "filterPolicy":
		cfg.FilterPolicy = value
	case "cacheDir":
		cfg.Cache.Dir = value
	case "cacheEnabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cacheEnabled must be true or false: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cacheTtl":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cacheTtl must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redactSecrets must be true or false: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "maxCommits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxCommits must be an integer: %w", err)
		}
		cfg.MaxCommits = n
	case "maxGroups":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxGroups must be an integer: %w", err)
		}
		cfg.MaxGroups = n
	case "dashboardPort":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("dashboardPort must be an integer: %w", err)
		}
		cfg.DashboardPort = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
