package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gerarics/ecommerce-api/internal/api/middleware"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty role
// proves the middleware ran on this route.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get(middleware.ContextRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ = c.Get(middleware.ContextUserID).(string)
	return userID, role, nil
}
