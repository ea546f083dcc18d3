package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"rental-service/pkg/logger"
)

// RequestIDMiddleware tags each request with a unique ID and stores a
// request-scoped logger in the context
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Honor an upstream-assigned ID, otherwise mint one.
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)
		c.Set(logger.ContextKeyRequestID, requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Set(logger.ContextKeyLogger, log)

		return next(c)
	}
}
