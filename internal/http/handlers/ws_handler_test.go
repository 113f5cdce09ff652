package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/services-marketplace/internal/http/middleware"
	"github.com/ignatzorin/services-marketplace/internal/ws"
)

func newWSTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	handler := NewWSHandler(ws.NewHub(ctx))

	r := gin.New()
	r.GET("/api/ws", handler.Handle)
	return r
}

func TestWSHandler_RequiresUserHeader(t *testing.T) {
	r := newWSTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/ws", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSHandler_QueryParamIdentityRejected(t *testing.T) {
	r := newWSTestRouter(t)

	// Идентичность принимается только из заголовка шлюза: подписаться
	// на чужой поток через query-параметр нельзя.
	req, _ := http.NewRequest("GET", "/api/ws?user_id="+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSHandler_InvalidUserHeader(t *testing.T) {
	r := newWSTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/ws", nil)
	req.Header.Set(middleware.HeaderUserID, "не-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
