package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys set by the request-ID middleware.
const (
	ContextKeyLogger    = "logger"
	ContextKeyRequestID = "request_id"
)

// FromContext retrieves the request-scoped logger from echo.Context. A
// request that bypassed the request-ID middleware gets the global logger
// tagged with whatever ID the headers carry.
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(ContextKeyLogger).(*zap.Logger); ok {
		return logger
	}

	requestID, ok := c.Get(ContextKeyRequestID).(string)
	if !ok || requestID == "" {
		requestID = c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = "unknown"
		}
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
