package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/danieluxury88/BotsTeam/internal/config"
	"github.com/danieluxury88/BotsTeam/internal/registry"
)

var (
	flagDescription string
	flagLanguage    string
	flagScope       string
	flagNotesDir    string
	flagTaskFile    string
	flagHabitFile   string
	flagGitLabURL   string
	flagGitLabToken string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage the project registry",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectsAdd,
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a project from the registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsRemove,
}

func init() {
	projectsCmd.PersistentFlags().StringVarP(&flagRegistry, "registry", "r", "", "path to the project registry file")
	projectsAddCmd.Flags().StringVarP(&flagDescription, "description", "d", "", "short project description")
	projectsAddCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "primary language")
	projectsAddCmd.Flags().StringVar(&flagScope, "scope", "team", "project scope (team or personal)")
	projectsAddCmd.Flags().StringVar(&flagNotesDir, "notes-dir", "", "notes directory for journalbot and notebot")
	projectsAddCmd.Flags().StringVar(&flagTaskFile, "task-file", "", "task file for taskbot")
	projectsAddCmd.Flags().StringVar(&flagHabitFile, "habit-file", "", "habit file for habitbot")
	projectsAddCmd.Flags().IntVar(&flagGitLabID, "gitlab-id", 0, "GitLab project ID")
	projectsAddCmd.Flags().StringVar(&flagGitLabURL, "gitlab-url", "", "GitLab base URL for self-hosted instances")
	projectsAddCmd.Flags().StringVar(&flagGitLabToken, "gitlab-token", "", "GitLab token (prefer GITLAB_PRIVATE_TOKEN)")
	projectsAddCmd.Flags().StringVar(&flagGitHubRepo, "github-repo", "", "GitHub repository as owner/name")
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsRemoveCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if reg.Len() == 0 {
		fmt.Println("No projects registered.")
		dimColor.Println("Add one with: devbots projects add <name> <path>")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.SetHeader([]string{"Name", "Scope", "Path", "Description", "Integration"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, p := range reg.List() {
		table.Append([]string{p.Name, p.Scope, p.Path, p.Description, integrationLabel(p)})
	}
	table.Render()
	return nil
}

func integrationLabel(p registry.Project) string {
	switch {
	case p.HasGitLab():
		return fmt.Sprintf("GitLab (#%d)", p.GitLabProjectID)
	case p.HasGitHub():
		return "GitHub (" + p.GitHubRepo + ")"
	}
	return "-"
}

func runProjectsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	if flagScope != registry.ScopeTeam && flagScope != registry.ScopePersonal {
		return fmt.Errorf("invalid scope %q (want team or personal)", flagScope)
	}
	path, err := filepath.Abs(args[1])
	if err != nil {
		return err
	}

	p := registry.Project{
		Name:            args[0],
		Path:            path,
		Description:     flagDescription,
		Language:        flagLanguage,
		Scope:           flagScope,
		NotesDir:        flagNotesDir,
		TaskFile:        flagTaskFile,
		HabitFile:       flagHabitFile,
		GitLabProjectID: flagGitLabID,
		GitLabURL:       flagGitLabURL,
		GitLabToken:     flagGitLabToken,
		GitHubRepo:      flagGitHubRepo,
	}
	if err := reg.Add(p); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}
	successColor.Printf("✓ Added project: %s → %s\n", p.Name, p.Path)
	return nil
}

func runProjectsRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if err := reg.Remove(args[0]); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}
	successColor.Printf("✓ Removed project: %s\n", args[0])
	return nil
}
