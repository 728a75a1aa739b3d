package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// RBAC lets the request through when the caller holds any of allowedRoles.
// Roles are compared case-insensitively.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := c.Get(CallerKey).(domain.Caller)
			if !ok || caller.ID == "" {
				return domain.ErrUnauthenticated
			}
			for _, role := range allowedRoles {
				if caller.HasRole(role) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
