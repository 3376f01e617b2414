package dashboard

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"github.com/danieluxury88/BotsTeam/internal/registry"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

// DefaultPort is the dashboard's default listen port.
const DefaultPort = 8080

// Server exposes the generated dashboard data, the raw reports, and a
// project CRUD API.
type Server struct {
	registry *registry.Registry
	store    *store.Store
	gen      *Generator
}

// NewServer wires a server over a loaded registry, the report store,
// and the generator that keeps the static JSON current.
func NewServer(reg *registry.Registry, st *store.Store, gen *Generator) *Server {
	return &Server{registry: reg, store: st, gen: gen}
}

// Router builds the gin engine with all dashboard routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware())

	r.GET("/data/*name", s.serveData)
	r.GET("/reports/:project/:bot/:file", s.serveReport)

	api := r.Group("/api")
	{
		api.GET("/projects", s.listProjects)
		api.GET("/projects/:name", s.getProject)
		api.POST("/projects", s.createProject)
		api.PUT("/projects/:name", s.updateProject)
		api.DELETE("/projects/:name", s.deleteProject)
	}
	return r
}

// Run serves until the listener fails. Callers decide whether to
// regenerate the static data first; the mutation API keeps it current
// afterwards.
func (s *Server) Run(port int) error {
	if port <= 0 {
		port = DefaultPort
	}
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func (s *Server) serveData(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	if name == "" || strings.Contains(name, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
		return
	}
	data, err := afero.ReadFile(s.gen.fs(), filepath.Join(s.gen.dir(), name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) serveReport(c *gin.Context) {
	file := c.Param("file")
	if !strings.HasSuffix(file, ".md") || strings.Contains(file, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report name"})
		return
	}
	content, err := s.store.ReadReport(c.Param("project"), c.Param("bot"), file)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
}

// sanitize strips credentials before a project leaves the API.
func sanitize(p registry.Project) registry.Project {
	p.GitLabToken = ""
	p.GitHubToken = ""
	return p
}

func (s *Server) listProjects(c *gin.Context) {
	list := s.registry.List()
	out := make([]registry.Project, 0, len(list))
	for _, p := range list {
		out = append(out, sanitize(p))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (s *Server) getProject(c *gin.Context) {
	p, ok := s.registry.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, sanitize(p))
}

func (s *Server) createProject(c *gin.Context) {
	var p registry.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	p.Name = strings.TrimSpace(p.Name)
	if !registry.ValidName(p.Name) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Name must start with a letter/digit and contain only letters, digits, hyphens, underscores.",
		})
		return
	}
	if p.Scope != registry.ScopePersonal {
		p.Scope = registry.ScopeTeam
	}
	if p.Path == "" {
		if p.Scope != registry.ScopePersonal {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Path is required for team projects."})
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		p.Path = home
	}
	if _, exists := s.registry.Get(p.Name); exists {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Project '%s' already exists.", p.Name)})
		return
	}
	if err := s.registry.Add(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.persistAndRegenerate(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sanitize(p))
}

// projectPatch carries the updatable fields; pointers distinguish
// "absent" from "set to empty".
type projectPatch struct {
	Path            *string `json:"path"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	NotesDir        *string `json:"notesDir"`
	TaskFile        *string `json:"taskFile"`
	HabitFile       *string `json:"habitFile"`
	GitLabProjectID *int    `json:"gitlabProjectId"`
	GitLabURL       *string `json:"gitlabUrl"`
	GitHubRepo      *string `json:"githubRepo"`
}

func (s *Server) updateProject(c *gin.Context) {
	name := c.Param("name")
	p, ok := s.registry.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Project '%s' not found.", name)})
		return
	}

	var patch projectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if patch.Path != nil && *patch.Path != "" {
		if _, err := os.Stat(*patch.Path); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Path does not exist: %s", *patch.Path)})
			return
		}
		p.Path = *patch.Path
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.NotesDir != nil {
		p.NotesDir = *patch.NotesDir
	}
	if patch.TaskFile != nil {
		p.TaskFile = *patch.TaskFile
	}
	if patch.HabitFile != nil {
		p.HabitFile = *patch.HabitFile
	}
	if patch.GitLabProjectID != nil {
		p.GitLabProjectID = *patch.GitLabProjectID
	}
	if patch.GitLabURL != nil {
		p.GitLabURL = *patch.GitLabURL
	}
	if patch.GitHubRepo != nil {
		p.GitHubRepo = *patch.GitHubRepo
	}

	if err := s.registry.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.persistAndRegenerate(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sanitize(p))
}

func (s *Server) deleteProject(c *gin.Context) {
	name := c.Param("name")
	if _, ok := s.registry.Get(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Project '%s' not found.", name)})
		return
	}
	if err := s.registry.Remove(name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.persistAndRegenerate(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

func (s *Server) persistAndRegenerate() error {
	if err := s.registry.Save(); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	if _, err := s.gen.Generate(s.registry.List()); err != nil {
		return fmt.Errorf("regenerating dashboard data: %w", err)
	}
	return nil
}
