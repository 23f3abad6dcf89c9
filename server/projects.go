package server

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/team"
)

type createProjectRequest struct {
	Name        string   `json:"name"`
	StartDate   string   `json:"start_date"` // RFC3339 or YYYY-MM-DD
	RM          []string `json:"rm"`
	FDD         []string `json:"fdd"`
	Sec         []string `json:"sec"`
	PC          []string `json:"pc"`
	AM          []string `json:"am"`
	Additional1 []string `json:"additional_1"`
	Additional2 []string `json:"additional_2"`
	Additional3 []string `json:"additional_3"`
}

// handleListProjects lists the viewer's projects. Admin-class users see
// everything; everyone else sees only projects they are on the team of.
func (s *Server) handleListProjects(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)

	var (
		projects []model.Project
		err      error
	)
	if user.IsAdminClass() {
		projects, err = s.db.ListProjects(ctx)
	} else {
		projects, err = s.db.ProjectsForUser(ctx, user.Email)
	}
	if err != nil {
		c.Logger().Error("list projects:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

// handleCreateProject creates a project with the next sequential id and
// instantiates the master template into it.
func (s *Server) handleCreateProject(c echo.Context) error {
	ctx := c.Request().Context()
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Name == "" {
		return errJSON(c, http.StatusBadRequest, "name required")
	}

	var startDate *time.Time
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, "invalid start_date")
		}
		startDate = &t
	}

	id, err := s.db.NextProjectID(ctx)
	if err != nil {
		c.Logger().Error("project id:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	p := &model.Project{
		ID:          id,
		Name:        req.Name,
		StartDate:   startDate,
		CreatedBy:   currentUser(c).Email,
		RM:          req.RM,
		FDD:         req.FDD,
		Sec:         req.Sec,
		PC:          req.PC,
		AM:          req.AM,
		Additional1: req.Additional1,
		Additional2: req.Additional2,
		Additional3: req.Additional3,
	}
	if err := s.db.CreateProject(ctx, p); err != nil {
		c.Logger().Error("create project:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if err := s.db.InstantiateTemplate(ctx, p); err != nil {
		c.Logger().Error("instantiate template:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, p)
}

// handleGetProject fetches one project
func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// handleSetProjectStatus moves a project between active, on_hold, and
// completed.
func (s *Server) handleSetProjectStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	err := s.db.SetProjectStatus(c.Request().Context(), c.Param("id"), req.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return errJSON(c, http.StatusNotFound, "project not found")
	}
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

// handleGetTeam resolves the project's role mappings against the directory
func (s *Server) handleGetTeam(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	roster := team.Resolve(p, s.db)
	if roster == nil {
		roster = []team.Member{}
	}
	return c.JSON(http.StatusOK, roster)
}

// handleUpdateTeam rewrites the role mappings and reassigns template tasks
func (s *Server) handleUpdateTeam(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	p.RM = req.RM
	p.FDD = req.FDD
	p.Sec = req.Sec
	p.PC = req.PC
	p.AM = req.AM
	p.Additional1 = req.Additional1
	p.Additional2 = req.Additional2
	p.Additional3 = req.Additional3

	if err := s.db.UpdateProjectTeam(c.Request().Context(), p); err != nil {
		c.Logger().Error("update team:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, p)
}

// loadProject fetches a project and enforces membership for non-admin
// viewers.
func (s *Server) loadProject(c echo.Context, id string) (*model.Project, error) {
	p, err := s.db.GetProject(c.Request().Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errJSON(c, http.StatusNotFound, "project not found")
	}
	if err != nil {
		c.Logger().Error("get project:", err)
		return nil, errJSON(c, http.StatusInternalServerError, "internal error")
	}

	user := currentUser(c)
	if !user.IsAdminClass() {
		member := false
		for _, rm := range p.TeamRoles() {
			for _, m := range rm.Members {
				if m == user.Email {
					member = true
				}
			}
		}
		if !member {
			return nil, errJSON(c, http.StatusForbidden, "not a project member")
		}
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
