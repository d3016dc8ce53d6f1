package middleware

import (
	"restaurant-api/internal/repository"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTのtvとDBのtoken_versionが一致するか確認。停止ユーザーもここで落とす
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return unauthorized(c)
			}
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return unauthorized(c)
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil {
				LoggerFrom(c).Error("token version lookup failed", zap.Int64("user_id", userID), zap.Error(err))
				return unauthorized(c)
			}
			if user == nil || !user.IsActive || user.TokenVersion != tv {
				return unauthorized(c)
			}

			// roleはDBの値を正とする（降格をすぐ反映）
			c.Set(CtxUserRoleKey, string(user.Role))
			return next(c)
		}
	}
}
