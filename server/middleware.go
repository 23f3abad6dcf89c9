package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/getfive/trackboard/internal/model"
)

// authMiddleware checks for a valid session token and loads the user
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return errJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		session, err := s.db.GetSession(c.Request().Context(), token)
		if err != nil {
			return errJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if session.IsExpired() {
			return errJSON(c, http.StatusUnauthorized, "token expired")
		}

		user, err := s.db.GetUser(c.Request().Context(), session.Email)
		if err != nil {
			return errJSON(c, http.StatusUnauthorized, "invalid token")
		}

		c.Set("token", token)
		c.Set("user", user)
		return next(c)
	}
}

// adminMiddleware restricts a route to admin-class users
func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsAdminClass() {
			return errJSON(c, http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *model.User {
	return c.Get("user").(*model.User)
}

func currentViewer(c echo.Context) model.Viewer {
	return model.ViewerFor(currentUser(c))
}
