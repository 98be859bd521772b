package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func corsServer(origins ...string) *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		ExposeHeaders: []string{echo.HeaderCacheControl},
		MaxAge:        600,
	}))
	e.GET("/api/stocks", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func TestCORSSimpleRequest(t *testing.T) {
	e := corsServer("https://dash.example.com")
	req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	req.Header.Set(echo.HeaderOrigin, "https://dash.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://dash.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, echo.HeaderCacheControl, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestCORSPreflight(t *testing.T) {
	e := corsServer("*")
	req := httptest.NewRequest(http.MethodOptions, "/api/stocks", nil)
	req.Header.Set(echo.HeaderOrigin, "https://any.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, POST", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	e := corsServer("https://dash.example.com")
	req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
