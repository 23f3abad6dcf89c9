// Package server exposes the dashboard over HTTP: auth, projects, tasks,
// the classified board, scorecards, reports, and the task change feed.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/logger"
)

// Server is the dashboard API server
type Server struct {
	db   *db.DB
	echo *echo.Echo
}

// New creates a new server on an already-opened store
func New(database *db.DB) *Server {
	s := &Server{db: database}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/projects", s.handleListProjects)
	protected.GET("/projects/:id", s.handleGetProject)
	protected.GET("/projects/:id/tasks", s.handleListTasks)
	protected.GET("/projects/:id/team", s.handleGetTeam)
	protected.GET("/projects/:id/board", s.handleBoard)
	protected.GET("/projects/:id/scorecard", s.handleScorecard)
	protected.GET("/projects/:id/overview", s.handleOverview)
	protected.GET("/projects/:id/events", s.handleEvents)

	protected.POST("/tasks/:id/start", s.handleStartTask)
	protected.POST("/tasks/:id/complete", s.handleCompleteTask)
	protected.POST("/tasks/:id/hold", s.handleHoldTask)
	protected.POST("/tasks/:id/resume", s.handleResumeTask)
	protected.POST("/tasks/:id/remarks", s.handleAddRemark)

	protected.GET("/reports/employees", s.handleEmployeeReport)
	protected.GET("/reports/series", s.handleSeries)

	// Admin-only endpoints
	admin := protected.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/projects", s.handleCreateProject)
	admin.PUT("/projects/:id/status", s.handleSetProjectStatus)
	admin.PUT("/projects/:id/team", s.handleUpdateTeam)
	admin.POST("/tasks/:id/approve", s.handleApproveTask)
	admin.POST("/tasks/:id/assign", s.handleAssignTask)
	admin.POST("/tasks/:id/requirement", s.handleSetRequirement)
	admin.GET("/users", s.handleListUsers)
	admin.POST("/users", s.handleUpsertUser)
	admin.PUT("/templates", s.handleReplaceTemplates)
	admin.GET("/templates", s.handleListTemplates)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}
