package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func newLimitedRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: limit})
	r := gin.New()
	r.Use(middleware.RateLimit(instance))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, tenant string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if tenant != "" {
		req.Header.Set(middleware.TenantHeader, tenant)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	r := newLimitedRouter(2)

	assert.Equal(t, http.StatusOK, get(r, "t1").Code)
	w := get(r, "t1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "t1").Code)
}

func TestRateLimit_BucketsPerTenant(t *testing.T) {
	r := newLimitedRouter(1)

	assert.Equal(t, http.StatusOK, get(r, "t1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "t1").Code)
	assert.Equal(t, http.StatusOK, get(r, "t2").Code)
	// requests without a tenant share the client IP bucket
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestTenantContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TenantContext())
	handler := func(c *gin.Context) {
		tenant, _ := middleware.GetTenantIDFromContext(c)
		actor, _ := middleware.GetActorFromContext(c)
		c.String(http.StatusOK, tenant+"/"+actor)
	}
	r.GET("/x", handler)
	r.POST("/x", handler)

	tests := []struct {
		name   string
		method string
		tenant string
		actor  string
		status int
		body   string
	}{
		{"read without actor", http.MethodGet, "t1", "", http.StatusOK, "t1/"},
		{"write with actor", http.MethodPost, "t1", "bob", http.StatusOK, "t1/bob"},
		{"write without actor", http.MethodPost, "t1", "", http.StatusBadRequest, ""},
		{"no tenant", http.MethodGet, "", "bob", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.tenant != "" {
				req.Header.Set(middleware.TenantHeader, tt.tenant)
			}
			if tt.actor != "" {
				req.Header.Set(middleware.ActorHeader, tt.actor)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
