package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths bypass the login gate.
var publicPaths = map[string]bool{
	"/health":       true,
	"/health/store": true,
	"/metrics":      true,
	"/api/v1/login": true,
}

// AuthSkipper returns true for requests whose route should skip the gate.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given path is reachable without a session.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
