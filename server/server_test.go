package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/getfive/trackboard/internal/classify"
	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/feed"
	"github.com/getfive/trackboard/internal/model"
)

type testEnv struct {
	srv *Server
	db  *db.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s := New(database)
	t.Cleanup(func() { s.Close() })
	return &testEnv{srv: s, db: database}
}

func (e *testEnv) addUser(t *testing.T, name, email, password string, roles ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, e.db.UpsertUser(context.Background(), &model.User{
		Name: name, Email: email, Roles: roles, PasswordHash: string(hash),
	}))
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.request(t, http.MethodPost, "/api/v1/login", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)

	rec := e.request(t, http.MethodPost, "/api/v1/login", "",
		map[string]string{"email": "priya@getfive.in", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.request(t, http.MethodPost, "/api/v1/login", "",
		map[string]string{"email": "nobody@getfive.in", "password": "secret-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	token := e.login(t, "priya@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "priya@getfive.in", me.Email)

	rec = e.request(t, http.MethodPost, "/api/v1/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSuperAdminForcedOnLogin(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Yajuvendra", model.SuperAdminEmail, "secret-pass", model.RoleEmployee)

	rec := e.request(t, http.MethodPost, "/api/v1/login", "",
		map[string]string{"email": model.SuperAdminEmail, "password": "secret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.User.Roles, model.RoleMasterAdmin)
}

func TestProjectCreationRequiresAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	token := e.login(t, "priya@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPost, "/api/v1/projects", token,
		map[string]interface{}{"name": "Alpha"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProjectLifecycle(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	admin := e.login(t, "admin@getfive.in", "secret-pass")

	// seed a one-entry template so project creation instantiates a task
	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "Kickoff call", Phase: "Phase 1", TargetWeek: 1, AssigneeRole: model.RoleRM},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name":       "Onboarding",
		"start_date": "2024-01-01",
		"rm":         []string{"priya@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "PR001", p.ID)

	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/tasks", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"priya@getfive.in"}, tasks[0].Assignees)

	rec = e.request(t, http.MethodPut, "/api/v1/projects/PR001/status", admin,
		map[string]string{"status": model.ProjectCompleted})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProjectScopedToMembers(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	e.addUser(t, "Outsider", "outsider@getfive.in", "secret-pass", model.RoleEmployee)
	admin := e.login(t, "admin@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name": "Alpha", "rm": []string{"priya@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	outsider := e.login(t, "outsider@getfive.in", "secret-pass")
	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001", outsider, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/projects", outsider, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var projects []model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Empty(t, projects)
}

func TestTaskActionsAndApproval(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	admin := e.login(t, "admin@getfive.in", "secret-pass")
	employee := e.login(t, "priya@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "Kickoff call", TargetWeek: 1, AssigneeRole: model.RoleRM},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name": "Alpha", "start_date": "2024-01-01", "rm": []string{"priya@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/tasks", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	id := tasks[0].ID

	// out-of-order transition is rejected
	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/complete", id), employee, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/start", id), employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/complete", id), employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var task model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, model.StatusAwaitingApproval, task.Status)
	assert.NotNil(t, task.EndTime)

	// approval is admin-only
	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/approve", id), employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/approve", id), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, model.StatusCompleted, task.Status)
}

func TestRemarksAndRequirement(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	admin := e.login(t, "admin@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "Kickoff call", TargetWeek: 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin,
		map[string]interface{}{"name": "Alpha"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/tasks", admin, nil)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	id := tasks[0].ID

	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/remarks", id), admin,
		map[string]string{"text": "waiting on vendor"})
	require.Equal(t, http.StatusOK, rec.Code)
	var task model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	require.Len(t, task.Remarks, 1)
	assert.Equal(t, "admin@getfive.in", task.Remarks[0].AuthorEmail)

	rec = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/requirement", id), admin,
		map[string]string{"requirement": model.RequirementAlreadyCompleted})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, model.StatusCompleted, task.Status)
}

func TestBoardEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	admin := e.login(t, "admin@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "This week task", TargetWeek: 1, AssigneeRole: model.RoleRM},
		{Position: 2, Name: "Far future task", TargetWeek: 40, AssigneeRole: model.RoleRM},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	start := time.Now().UTC().Format("2006-01-02")
	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name": "Alpha", "start_date": start, "rm": []string{"admin@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/board", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var board struct {
		CurrentWeek int              `json:"current_week"`
		Buckets     classify.Buckets `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Equal(t, 1, board.CurrentWeek)
	require.Len(t, board.Buckets.ThisWeek, 1)
	assert.Equal(t, "This week task", board.Buckets.ThisWeek[0].Name)
	assert.Empty(t, board.Buckets.NextWeek)
}

func TestScorecardEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	admin := e.login(t, "admin@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "Task one", TargetWeek: 1, AssigneeRole: model.RoleRM},
		{Position: 2, Name: "Task two", TargetWeek: 1, AssigneeRole: model.RoleRM},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	start := time.Now().UTC().Format("2006-01-02")
	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name": "Alpha", "start_date": start, "rm": []string{"admin@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/scorecard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sc struct {
		Assigned int `json:"assigned"`
		Score    int `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sc))
	assert.Equal(t, 2, sc.Assigned)
	assert.Equal(t, -20, sc.Score)
}

func TestEventsEndpointScoping(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	e.addUser(t, "Priya", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	admin := e.login(t, "admin@getfive.in", "secret-pass")
	employee := e.login(t, "priya@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "Mine", TargetWeek: 1, AssigneeRole: model.RoleRM},
		{Position: 2, Name: "Not mine", TargetWeek: 1, AssigneeRole: model.RoleSec},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name": "Alpha",
		"rm":   []string{"priya@getfive.in"},
		"sec":  []string{"someone-else@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/events?after=0", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var adminEvents []feed.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adminEvents))
	require.Len(t, adminEvents, 2)

	// the non-RM viewer only sees the insert for their own task
	rec = e.request(t, http.MethodGet, "/api/v1/projects/PR001/events?after=0", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var scoped []feed.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scoped))
	require.Len(t, scoped, 1)
	assert.Equal(t, "Mine", scoped[0].Task.Name)
}

func TestEmployeeReportEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.addUser(t, "Admin", "admin@getfive.in", "secret-pass", model.RoleAdmin)
	e.addUser(t, "Priya Nair", "priya@getfive.in", "secret-pass", model.RoleEmployee)
	admin := e.login(t, "admin@getfive.in", "secret-pass")

	rec := e.request(t, http.MethodPut, "/api/v1/templates", admin, []db.Template{
		{Position: 1, Name: "Kickoff call", TargetWeek: 1, AssigneeRole: model.RoleRM},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.request(t, http.MethodPost, "/api/v1/projects", admin, map[string]interface{}{
		"name": "Alpha", "start_date": "2024-01-01", "rm": []string{"priya@getfive.in"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.request(t, http.MethodGet, "/api/v1/reports/employees?project=PR001", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "priya@getfive.in", stats[0].Email)
	assert.Equal(t, "Priya Nair", stats[0].Name)
	assert.Equal(t, 1, stats[0].Total)
}
