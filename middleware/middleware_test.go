package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/closet-labs/marketapi/base/ctx"
)

func TestAddContext(t *testing.T) {
	m := InitMiddleware()
	e := echo.New()
	e.Use(m.AddContext(), m.ResponseLogger())

	var requestID interface{}
	e.GET("/", func(c echo.Context) error {
		requestID = c.Get("ctx").(ctx.Ctx).Value("requestID")
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), requestID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", requestID)
}

func TestResponseLoggerHandlesErrors(t *testing.T) {
	m := InitMiddleware()
	e := echo.New()
	e.Use(m.AddContext(), m.ResponseLogger())
	e.GET("/", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestIsValidAddress(t *testing.T) {
	e := echo.New()
	e.GET("/:mint", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, IsValidAddress("mint"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/So11111111111111111111111111111111111111112", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, rl.Middleware())

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))

	now = now.Add(time.Hour)
	assert.Equal(t, 2, rl.Cleanup(time.Minute))
	assert.Equal(t, 0, rl.Cleanup(time.Minute))
}
