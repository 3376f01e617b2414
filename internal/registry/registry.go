package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Project describes one registered project and its integrations.
type Project struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Scope       string `json:"scope,omitempty"`

	// Inputs for the personal bots.
	NotesDir  string `json:"notesDir,omitempty"`
	TaskFile  string `json:"taskFile,omitempty"`
	HabitFile string `json:"habitFile,omitempty"`

	// Issue tracker bindings.
	GitLabProjectID int    `json:"gitlabProjectId,omitempty"`
	GitLabURL       string `json:"gitlabUrl,omitempty"`
	GitLabToken     string `json:"gitlabToken,omitempty"`
	GitHubRepo      string `json:"githubRepo,omitempty"`
	GitHubToken     string `json:"githubToken,omitempty"`
}

// Scope values. Team projects carry tracker bindings; personal projects
// carry notes, tasks, and habits.
const (
	ScopeTeam     = "team"
	ScopePersonal = "personal"
)

// HasGitLab reports whether the project is bound to a GitLab project.
func (p Project) HasGitLab() bool {
	return p.GitLabProjectID > 0
}

// HasGitHub reports whether the project is bound to a GitHub repository.
func (p Project) HasGitHub() bool {
	return p.GitHubRepo != ""
}

// ResolveGitLabToken returns the project token, falling back to
// GITLAB_PRIVATE_TOKEN.
func (p Project) ResolveGitLabToken() string {
	if p.GitLabToken != "" {
		return p.GitLabToken
	}
	return os.Getenv("GITLAB_PRIVATE_TOKEN")
}

// ResolveGitLabURL returns the project base URL, falling back to
// GITLAB_URL and then to gitlab.com.
func (p Project) ResolveGitLabURL() string {
	if p.GitLabURL != "" {
		return p.GitLabURL
	}
	if v := os.Getenv("GITLAB_URL"); v != "" {
		return v
	}
	return "https://gitlab.com"
}

// ResolveGitHubToken returns the project token, falling back to
// GITHUB_TOKEN.
func (p Project) ResolveGitHubToken() string {
	if p.GitHubToken != "" {
		return p.GitHubToken
	}
	return os.Getenv("GITHUB_TOKEN")
}

// ResolveGitHubAPIURL returns the API base URL from GITHUB_API_URL for
// GitHub Enterprise setups. Empty means api.github.com.
func (p Project) ResolveGitHubAPIURL() string {
	return os.Getenv("GITHUB_API_URL")
}

// nameRe constrains project names so they stay safe as directory names
// and URL path segments.
var nameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidName reports whether name is acceptable as a project name.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Registry holds the registered projects and the file they persist to.
type Registry struct {
	path     string
	projects map[string]Project
}

// DefaultPath returns the standard registry location, ~/.devbots/projects.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".devbots", "projects.json"), nil
}

// Load reads the registry at path. An empty path selects DefaultPath.
// A missing file yields an empty registry, not an error.
func Load(path string) (*Registry, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	r := &Registry{path: path, projects: make(map[string]Project)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	if err := json.Unmarshal(data, &r.projects); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}

	// The map key is authoritative for the name.
	for name, p := range r.projects {
		p.Name = name
		r.projects[name] = p
	}
	return r, nil
}

// Path returns the file this registry persists to.
func (r *Registry) Path() string {
	return r.path
}

// Save writes the registry back to its file, creating parent directories
// as needed.
func (r *Registry) Save() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating registry dir: %w", err)
	}
	data, err := json.MarshalIndent(r.projects, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}

// Add registers a new project. The name must be valid and unused, and
// the path must point at an existing directory.
func (r *Registry) Add(p Project) error {
	if !ValidName(p.Name) {
		return fmt.Errorf("invalid project name %q: use letters, digits, '-' or '_'", p.Name)
	}
	if _, exists := r.projects[p.Name]; exists {
		return fmt.Errorf("project %q already registered", p.Name)
	}
	info, err := os.Stat(p.Path)
	if err != nil {
		return fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path %s is not a directory", p.Path)
	}
	r.projects[p.Name] = p
	return nil
}

// Update replaces an existing project entry.
func (r *Registry) Update(p Project) error {
	if _, exists := r.projects[p.Name]; !exists {
		return fmt.Errorf("project %q not registered", p.Name)
	}
	r.projects[p.Name] = p
	return nil
}

// Remove drops a project from the registry.
func (r *Registry) Remove(name string) error {
	if _, exists := r.projects[name]; !exists {
		return fmt.Errorf("project %q not registered", name)
	}
	delete(r.projects, name)
	return nil
}

// Get looks up a project by name.
func (r *Registry) Get(name string) (Project, bool) {
	p, ok := r.projects[name]
	return p, ok
}

// List returns all projects sorted by name.
func (r *Registry) List() []Project {
	out := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered projects.
func (r *Registry) Len() int {
	return len(r.projects)
}
