package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/getfive/trackboard/internal/classify"
	"github.com/getfive/trackboard/internal/model"
	"github.com/getfive/trackboard/internal/report"
	"github.com/getfive/trackboard/internal/score"
	"github.com/getfive/trackboard/internal/team"
	"github.com/getfive/trackboard/internal/week"
)

type boardResponse struct {
	CurrentWeek int              `json:"current_week"`
	Buckets     classify.Buckets `json:"buckets"`
}

// handleBoard returns the classified weekly board for the viewer. Toggles
// come in as query flags; next-week visibility is RM-class only regardless
// of the flag.
func (s *Server) handleBoard(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	tasks, err := s.db.ListTasks(c.Request().Context(), p.ID)
	if err != nil {
		c.Logger().Error("list tasks:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	toggles := classify.Toggles{
		ShowTeamFeed:  c.QueryParam("team_feed") == "true",
		ShowNextWeek:  c.QueryParam("next_week") == "true",
		AssignMode:    c.QueryParam("assign_mode") == "true",
		ShowCompleted: c.QueryParam("completed") == "true",
	}

	now := time.Now().UTC()
	currentWeek := week.Current(p.StartDate, now)
	buckets := classify.Classify(tasks, currentWeek, currentViewer(c), toggles)

	return c.JSON(http.StatusOK, boardResponse{CurrentWeek: currentWeek, Buckets: buckets})
}

// handleScorecard computes the weekly scorecard. Admin-class viewers may ask
// for any member via ?email=; everyone else gets their own.
func (s *Server) handleScorecard(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	user := currentUser(c)
	email := user.Email
	if q := c.QueryParam("email"); q != "" && user.IsAdminClass() {
		email = q
	}

	tasks, err := s.db.ListTasks(c.Request().Context(), p.ID)
	if err != nil {
		c.Logger().Error("list tasks:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	currentWeek := week.Current(p.StartDate, time.Now().UTC())
	sc := score.Compute(tasks, email, currentWeek, p.StartDate)
	return c.JSON(http.StatusOK, sc)
}

// handleOverview returns the project-wide progress aggregate
func (s *Server) handleOverview(c echo.Context) error {
	p, err := s.loadProject(c, c.Param("id"))
	if err != nil {
		return err
	}
	tasks, err := s.db.ListTasks(c.Request().Context(), p.ID)
	if err != nil {
		c.Logger().Error("list tasks:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	roster := team.Resolve(p, s.db)
	ov := report.GenerateProjectOverview(tasks, roster, time.Now().UTC())
	return c.JSON(http.StatusOK, ov)
}

// handleEmployeeReport rolls up per-employee stats. With ?project= it covers
// one project's roster; without it the report spans every project the
// admin-class caller can see.
func (s *Server) handleEmployeeReport(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	filter := report.TimeFilter(c.QueryParam("filter"))

	var (
		tasks  []model.Task
		roster []team.Member
	)
	startDates := map[string]time.Time{}

	if projectID := c.QueryParam("project"); projectID != "" {
		p, err := s.loadProject(c, projectID)
		if err != nil {
			return err
		}
		tasks, err = s.db.ListTasks(ctx, p.ID)
		if err != nil {
			c.Logger().Error("list tasks:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		roster = team.Resolve(p, s.db)
		if p.StartDate != nil {
			startDates[p.ID] = *p.StartDate
		}
	} else {
		if !user.IsAdminClass() {
			return errJSON(c, http.StatusForbidden, "admin access required")
		}
		projects, err := s.db.ListProjects(ctx)
		if err != nil {
			c.Logger().Error("list projects:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		for i := range projects {
			p := &projects[i]
			roster = append(roster, team.Resolve(p, s.db)...)
			if p.StartDate != nil {
				startDates[p.ID] = *p.StartDate
			}
		}
		tasks, err = s.db.ListAllTasks(ctx)
		if err != nil {
			c.Logger().Error("list tasks:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	stats := report.GenerateEmployeeReport(tasks, roster, filter, time.Now().UTC(), startDates)
	if stats == nil {
		stats = []report.EmployeeStats{}
	}
	return c.JSON(http.StatusOK, stats)
}

// handleSeries returns the weekly backlog-pressure timeline for one
// identity across every project with a known start date.
func (s *Server) handleSeries(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	email := user.Email
	if q := c.QueryParam("email"); q != "" && user.IsAdminClass() {
		email = q
	}

	projects, err := s.db.ListProjects(ctx)
	if err != nil {
		c.Logger().Error("list projects:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	startDates := map[string]time.Time{}
	for _, p := range projects {
		if p.StartDate != nil {
			startDates[p.ID] = *p.StartDate
		}
	}

	tasks, err := s.db.ListAllTasks(ctx)
	if err != nil {
		c.Logger().Error("list tasks:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	points := report.ComputeEmployeePerformanceSeries(tasks, email, startDates, time.Now().UTC())
	if points == nil {
		points = []report.SeriesPoint{}
	}
	return c.JSON(http.StatusOK, points)
}
