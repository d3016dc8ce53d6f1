package middleware

import (
	"restaurant-api/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// RequireRoles はcontextのroleが許可リストに含まれるか確認する（AuthJWTの後に置く）
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return unauthorized(c)
			}
			if _, ok := allowed[role]; !ok {
				return forbidden(c, "insufficient role")
			}
			return next(c)
		}
	}
}

// STAFFとADMIN
func StaffRoleGuard() echo.MiddlewareFunc {
	return RequireRoles(model.RoleStaff, model.RoleAdmin)
}

func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRoles(model.RoleAdmin)
}
