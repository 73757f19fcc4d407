package auth

import (
	"context"

	"github.com/labstack/echo/v4"
)

type contextKey string

const sessionKey contextKey = "hms_session"

// Page and tab navigation headers sent by the dashboard client.
const (
	HeaderPage = "X-HMS-Page"
	HeaderTab  = "X-HMS-Tab"
)

// Session is the per-request view of who is logged in and where they are
// in the dashboard. It lives only in the request context.
type Session struct {
	ID       string `json:"session_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Page     string `json:"page,omitempty"`
	Tab      string `json:"tab,omitempty"`
}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the request's session, or nil outside the gate.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}

// UsernameFromContext returns the logged-in username or "".
func UsernameFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.Username
	}
	return ""
}

func attachSession(c echo.Context, s *Session) {
	s.Page = c.Request().Header.Get(HeaderPage)
	s.Tab = c.Request().Header.Get(HeaderTab)
	c.Set("session_id", s.ID)
	c.Set("username", s.Username)
	c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), s)))
}
