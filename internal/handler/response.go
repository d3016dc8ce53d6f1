package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"restaurant-api/internal/domain/model"
	"restaurant-api/internal/middleware"
	"restaurant-api/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// エラーボディ: errorは機械可読な種別、messageは人向け
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// writeError はusecaseのエラーをそのままJSONにする。未知のエラーは500
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	he := usecase.AsHTTPError(err)
	if he.Status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error("request failed",
			zap.String("kind", string(he.Kind)),
			zap.Error(err),
			zap.Stack("stack"),
		)
	}
	return c.JSON(he.Status, ErrorResponse{Error: string(he.Kind), Message: he.Message})
}

// HTTPErrorHandler はecho自身のエラー（404/405/413など）も同じ形で返す
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		msg := http.StatusText(ee.Code)
		if s, ok := ee.Message.(string); ok && s != "" {
			msg = s
		}
		_ = writeError(c, usecase.NewHTTPError(ee.Code, msg))
		return
	}
	_ = writeError(c, err)
}

func badRequest(c echo.Context, msg string) error {
	return writeError(c, usecase.NewValidationError(msg))
}

// AuthJWTが入れたuser_id
func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func actorFromContext(c echo.Context) (usecase.Actor, bool) {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return usecase.Actor{UserID: id, Role: model.Role(role)}, true
}

func unauthorized(c echo.Context) error {
	return writeError(c, usecase.NewUnauthorizedError("unauthorized"))
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(c echo.Context, name string) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func queryInt64Ptr(c echo.Context, name string) (*int64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// RFC3339 または日付のみ（YYYY-MM-DD）
func queryTimePtr(c echo.Context, name string) (*time.Time, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	if tm, err := time.Parse(time.RFC3339, v); err == nil {
		return &tm, true
	}
	if tm, err := time.Parse(time.DateOnly, v); err == nil {
		return &tm, true
	}
	return nil, false
}
