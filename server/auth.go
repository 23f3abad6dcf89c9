package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/getfive/trackboard/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string     `json:"token"`
	ExpiresAt string     `json:"expires_at"`
	User      model.User `json:"user"`
}

// handleLogin authenticates by email and password. Role normalization runs
// on every read, so the super-admin address always comes back master_admin.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.Email == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "email and password required")
	}

	user, err := s.db.GetUser(c.Request().Context(), req.Email)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.createSession(c, user.Email)
	if err != nil {
		c.Logger().Error("session error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      *user,
	})
}

// handleMe returns the authenticated user
func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

// handleLogout invalidates the presented token
func (s *Server) handleLogout(c echo.Context) error {
	token := c.Get("token").(string)
	if err := s.db.DeleteSession(c.Request().Context(), token); err != nil {
		c.Logger().Error("logout error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// createSession creates a new session for a user. Sessions expire in 30 days.
func (s *Server) createSession(c echo.Context, email string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)
	now := time.Now().UTC()
	expiresAt := now.Add(30 * 24 * time.Hour)

	err := s.db.CreateSession(c.Request().Context(), &model.Session{
		ID:        uuid.New().String(),
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	})
	return token, expiresAt, err
}
