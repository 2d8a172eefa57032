package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uherman/micro-kv/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WriteAuthMiddleware())
	r.GET("/k", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/k", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestWriteAuthMiddleware_ReadsStayPublic(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/k", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWriteAuthMiddleware_WriteWithToken(t *testing.T) {
	r := newProtectedRouter()

	token, err := auth.GenerateToken("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/k", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWriteAuthMiddleware_WriteWithoutToken(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest(http.MethodPost, "/k", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWriteAuthMiddleware_BadToken(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest(http.MethodPost, "/k", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
