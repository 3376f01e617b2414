package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieluxury88/BotsTeam/internal/registry"
	"github.com/danieluxury88/BotsTeam/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	st := store.New(fs, "data")
	_, _, err := st.SaveReport("demo", "gitbot", "# Report\n\nAll good.")
	require.NoError(t, err)

	regPath := filepath.Join(t.TempDir(), "projects.json")
	reg, err := registry.Load(regPath)
	require.NoError(t, err)
	require.NoError(t, reg.Add(registry.Project{
		Name:            "demo",
		Path:            t.TempDir(),
		GitLabProjectID: 5,
		GitLabToken:     "glpat-secret",
	}))
	require.NoError(t, reg.Save())

	gen := &Generator{Store: st, FS: fs}
	return NewServer(reg, st, gen), fs, regPath
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServeData(t *testing.T) {
	srv, _, _ := newTestServer(t)
	_, err := srv.gen.Generate(srv.registry.List())
	require.NoError(t, err)
	router := srv.Router()

	w := doRequest(t, router, "GET", "/data/projects.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"demo"`)

	w = doRequest(t, router, "GET", "/data/missing.json", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeReport(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "GET", "/reports/demo/gitbot/latest.md", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Equal(t, "# Report\n\nAll good.", w.Body.String())

	w = doRequest(t, router, "GET", "/reports/demo/gitbot/2099-01-01-000000.md", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, "GET", "/reports/demo/gitbot/notes.txt", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjectsStripsTokens(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "GET", "/api/projects", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"demo"`)
	assert.NotContains(t, body, "glpat-secret")
	assert.NotContains(t, body, "gitlabToken")
}

func TestGetProject(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "GET", "/api/projects/demo", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var p registry.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "demo", p.Name)
	assert.Empty(t, p.GitLabToken)

	w = doRequest(t, router, "GET", "/api/projects/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProject(t *testing.T) {
	srv, fs, regPath := newTestServer(t)
	router := srv.Router()
	dir := t.TempDir()

	w := doRequest(t, router, "POST", "/api/projects",
		`{"name": "svc", "path": "`+dir+`", "description": "new service"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	reloaded, err := registry.Load(regPath)
	require.NoError(t, err)
	p, ok := reloaded.Get("svc")
	require.True(t, ok)
	assert.Equal(t, "new service", p.Description)
	assert.Equal(t, registry.ScopeTeam, p.Scope)

	// mutation regenerated the static data
	exists, _ := afero.Exists(fs, "dashboard/data/projects.json")
	assert.True(t, exists)
}

func TestCreateProjectValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	dir := t.TempDir()

	w := doRequest(t, router, "POST", "/api/projects", `{"name": "bad name!", "path": "`+dir+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, "POST", "/api/projects", `{"name": "demo", "path": "`+dir+`"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = doRequest(t, router, "POST", "/api/projects", `{"name": "nopath"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Path is required for team projects.")

	w = doRequest(t, router, "POST", "/api/projects", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePersonalProjectDefaultsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	srv, _, regPath := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "POST", "/api/projects", `{"name": "pers", "scope": "personal"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	reloaded, err := registry.Load(regPath)
	require.NoError(t, err)
	p, ok := reloaded.Get("pers")
	require.True(t, ok)
	assert.Equal(t, home, p.Path)
	assert.Equal(t, registry.ScopePersonal, p.Scope)
}

func TestUpdateProject(t *testing.T) {
	srv, _, regPath := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "PUT", "/api/projects/demo", `{"description": "updated"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reloaded, err := registry.Load(regPath)
	require.NoError(t, err)
	p, _ := reloaded.Get("demo")
	assert.Equal(t, "updated", p.Description)
	assert.Equal(t, 5, p.GitLabProjectID) // untouched fields survive

	w = doRequest(t, router, "PUT", "/api/projects/demo", `{"path": "/definitely/not/here"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Path does not exist: /definitely/not/here")

	w = doRequest(t, router, "PUT", "/api/projects/ghost", `{"description": "x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProject(t *testing.T) {
	srv, _, regPath := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "DELETE", "/api/projects/demo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":"demo"`)

	reloaded, err := registry.Load(regPath)
	require.NoError(t, err)
	_, ok := reloaded.Get("demo")
	assert.False(t, ok)

	w = doRequest(t, router, "DELETE", "/api/projects/demo", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	w := doRequest(t, router, "OPTIONS", "/api/projects", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
