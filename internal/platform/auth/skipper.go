package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths never require a bearer token.
var publicPaths = map[string]bool{
	"/health":        true,
	"/health/db":     true,
	"/auth/login":    true,
	"/auth/register": true,
}

// publicPrefixes cover the device ingress routes. ESP32 boards hold no
// credentials, so the bed and medication device endpoints stay open.
var publicPrefixes = []string{
	"/beds-ext/",
	"/medication-ext/",
}

// Skipper reports whether the request path bypasses authentication.
func Skipper(c echo.Context) bool {
	path := c.Request().URL.Path
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
