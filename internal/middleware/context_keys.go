package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// TenantHeader carries the opaque tenant id every ledger call is partitioned by.
	TenantHeader = "X-Tenant-ID"
	// ActorHeader names who performs a mutation. It ends up in the audit chain.
	ActorHeader = "X-Actor"

	tenantIDKey = contextKey("tenantID")
	actorKey    = contextKey("actor")
)

// TenantContext extracts the tenant and actor headers into the Gin context.
// Requests without a tenant are rejected. Mutating requests must also name an actor.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(TenantHeader)
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + TenantHeader + " header"})
			return
		}
		actor := c.GetHeader(ActorHeader)
		if actor == "" && isMutating(c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}

		c.Set(string(tenantIDKey), tenantID)
		c.Set(string(actorKey), actor)
		GetLoggerFromContext(c).Debug("Tenant resolved")
		c.Next()
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// GetTenantIDFromContext retrieves the tenant id set by TenantContext.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	return getString(c, tenantIDKey)
}

// GetActorFromContext retrieves the actor set by TenantContext.
func GetActorFromContext(c *gin.Context) (string, bool) {
	return getString(c, actorKey)
}

func getString(c *gin.Context, key contextKey) (string, bool) {
	val, exists := c.Get(string(key))
	if !exists {
		return "", false
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
