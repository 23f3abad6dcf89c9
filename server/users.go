package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/model"
)

type upsertUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Password string   `json:"password"` // empty keeps the existing hash
}

// handleListUsers returns the directory
func (s *Server) handleListUsers(c echo.Context) error {
	users, err := s.db.ListUsers(c.Request().Context())
	if err != nil {
		c.Logger().Error("list users:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// handleUpsertUser creates or updates a directory entry
func (s *Server) handleUpsertUser(c echo.Context) error {
	ctx := c.Request().Context()
	var req upsertUserRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Email == "" {
		return errJSON(c, http.StatusBadRequest, "email required")
	}

	u := &model.User{Name: req.Name, Email: req.Email, Roles: req.Roles}
	if existing, err := s.db.GetUser(ctx, req.Email); err == nil {
		u.PasswordHash = existing.PasswordHash
		u.CreatedAt = existing.CreatedAt
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return errJSON(c, http.StatusBadRequest, "password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.Logger().Error("bcrypt error:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		u.PasswordHash = string(hash)
	}

	if err := s.db.UpsertUser(ctx, u); err != nil {
		c.Logger().Error("upsert user:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, u)
}

// handleListTemplates returns the master task template
func (s *Server) handleListTemplates(c echo.Context) error {
	templates, err := s.db.ListTemplates(c.Request().Context())
	if err != nil {
		c.Logger().Error("list templates:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if templates == nil {
		templates = []db.Template{}
	}
	return c.JSON(http.StatusOK, templates)
}

// handleReplaceTemplates swaps the master task template wholesale
func (s *Server) handleReplaceTemplates(c echo.Context) error {
	var templates []db.Template
	if err := c.Bind(&templates); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if err := s.db.ReplaceTemplates(c.Request().Context(), templates); err != nil {
		c.Logger().Error("replace templates:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]int{"count": len(templates)})
}
