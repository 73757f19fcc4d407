package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// LoginHandler exchanges static credentials for a session token.
type LoginHandler struct {
	users  Users
	cfg    JWTConfig
	logger zerolog.Logger
}

func NewLoginHandler(users Users, cfg JWTConfig, logger zerolog.Logger) *LoginHandler {
	return &LoginHandler{users: users, cfg: cfg, logger: logger.With().Str("component", "auth").Logger()}
}

func (h *LoginHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/login", h.Login)
	api.GET("/session", h.Current)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Session
}

func (h *LoginHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	if err := h.users.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Warn().Str("username", req.Username).Msg("login rejected")
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
	token, claims, err := h.cfg.Issue(req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
	h.logger.Info().Str("username", claims.Username).Str("session_id", claims.SessionID).Msg("login")
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
		Session:   Session{ID: claims.SessionID, Username: claims.Username, Role: claims.Role},
	})
}

// Current echoes the caller's session, including the page and tab headers.
func (h *LoginHandler) Current(c echo.Context) error {
	s := SessionFromContext(c.Request().Context())
	if s == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(http.StatusOK, s)
}
