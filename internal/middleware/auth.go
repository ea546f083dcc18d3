package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
)

// AuthMiddleware validates the JWT token and extracts the operator identity
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Extract the token
		tokenString := parts[1]

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store operator info in context for later use. The role claim
		// only gates UI surfaces; nothing server-side branches on it.
		c.Set("operator_email", claims.Email)
		c.Set("operator_role", claims.Role)

		log.Info("Request authenticated",
			zap.String("email", claims.Email),
			zap.String("role", claims.Role))

		// Token is valid, proceed with the request
		return next(c)
	}
}

// GetOperatorFromContext retrieves the operator email from the context
func GetOperatorFromContext(c echo.Context) (string, bool) {
	email, ok := c.Get("operator_email").(string)
	return email, ok
}
