package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const ctxLoggerKey = "logger"

// RequestLogger はリクエストごとのloggerをcontextに置き、終了時に1行出す
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}
			l := base.With(zap.String("request_id", rid))
			c.Set(ctxLoggerKey, l)

			err := next(c)
			if err != nil {
				// echoのエラーハンドラにステータスを決めさせる
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if uid, ok := c.Get(CtxUserIDKey).(int64); ok {
				fields = append(fields, zap.Int64("user_id", uid))
			}

			switch s := c.Response().Status; {
			case s >= 500:
				l.Error("request", fields...)
			case s >= 400:
				l.Warn("request", fields...)
			default:
				l.Info("request", fields...)
			}
			return nil
		}
	}
}

// LoggerFrom はRequestLoggerが置いたloggerを返す（無ければNop）
func LoggerFrom(c echo.Context) *zap.Logger {
	if l, ok := c.Get(ctxLoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
