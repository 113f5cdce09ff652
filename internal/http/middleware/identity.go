package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/services-marketplace/internal/identity"
)

// Context ключи для gin.Context.
const (
	ContextActorKey = "actor"
)

// Заголовки, проставляемые шлюзом после аутентификации.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// IdentityMiddleware извлекает действующего пользователя из заголовков
// доверенного шлюза и кладёт его в контекст запроса. Запрос без валидной
// идентификации отклоняется.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader(HeaderUserID)
		if rawID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		userID, err := uuid.Parse(rawID)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "идентификатор пользователя невалиден"})
			return
		}

		role := c.GetHeader(HeaderUserRole)
		if _, ok := identity.ValidRoles[role]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "роль пользователя невалидна"})
			return
		}

		c.Set(ContextActorKey, identity.Actor{
			ID:   userID,
			Name: c.GetHeader(HeaderUserName),
			Role: role,
		})
		c.Next()
	}
}
