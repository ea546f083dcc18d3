package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContextReturnsStoredLogger(t *testing.T) {
	c := testContext(t)
	stored := zap.NewNop()
	c.Set(ContextKeyLogger, stored)

	assert.Same(t, stored, FromContext(c))
}

func TestFromContextFallsBackToRequestID(t *testing.T) {
	c := testContext(t)
	c.Set(ContextKeyRequestID, "abc-123")

	require.NotNil(t, FromContext(c))
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	c := testContext(t)
	c.Request().Header.Set(echo.HeaderXRequestID, "hdr-456")

	require.NotNil(t, FromContext(c))
}
