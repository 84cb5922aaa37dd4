package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gerarics/ecommerce-api/internal/api/metrics"
	"github.com/gerarics/ecommerce-api/internal/core/domain"
)

// RBAC enforces role-based access control against the single role claim set
// by Auth. Role names compare in their normalized form. Public routes simply
// omit this middleware.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[domain.NormalizeRole(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[domain.NormalizeRole(role)]; !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
