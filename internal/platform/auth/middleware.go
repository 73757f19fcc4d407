package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	issuer          = "hms"
	DefaultTokenTTL = 8 * time.Hour
)

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
}

type JWTConfig struct {
	SigningKey []byte
	TTL        time.Duration
	// Skipper bypasses the gate for public paths.
	Skipper func(echo.Context) bool
	now     func() time.Time
}

func (cfg JWTConfig) clock() time.Time {
	if cfg.now != nil {
		return cfg.now()
	}
	return time.Now()
}

// Issue signs a session token for username.
func (cfg JWTConfig) Issue(username string) (string, *Claims, error) {
	if len(cfg.SigningKey) == 0 {
		return "", nil, errors.New("auth: signing key not configured")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := cfg.clock()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  username,
		Role:      RoleFor(username),
		SessionID: uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.SigningKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies a session token and returns its claims.
func (cfg JWTConfig) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.SigningKey, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(cfg.clock),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Username == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// SessionMiddleware requires a valid bearer session token and places the
// Session in the request context.
func SessionMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := cfg.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			attachSession(c, &Session{
				ID:       claims.SessionID,
				Username: claims.Username,
				Role:     claims.Role,
			})
			return next(c)
		}
	}
}

// DevSessionMiddleware lets every request through as the admin user. Used
// when the login gate is disabled.
func DevSessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			attachSession(c, &Session{
				ID:       "dev",
				Username: AdminUser,
				Role:     RoleFor(AdminUser),
			})
			return next(c)
		}
	}
}
