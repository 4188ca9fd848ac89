package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tzavrishon/prep-backend/internal/model"
	"github.com/tzavrishon/prep-backend/internal/response"
	"github.com/tzavrishon/prep-backend/internal/service"
)

// ContextKeyIdentity is the Gin context key for the resolved identity.
const ContextKeyIdentity = "identity"

// HeaderGuestID carries the client-generated guest UUID on anonymous
// requests.
const HeaderGuestID = "X-Guest-Id"

// ResolveIdentity accepts either a valid user JWT or an X-Guest-Id header
// and stores a model.Identity in the context. A JWT, when present, always
// wins over the guest header. Requests carrying neither are rejected.
func ResolveIdentity(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := bearerToken(c); tokenStr != "" {
			claims, err := authService.ValidateToken(tokenStr)
			if err != nil {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
				return
			}
			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyIdentity, model.UserIdentity(claims.UserID))
			c.Next()
			return
		}

		rawGuestID := c.GetHeader(HeaderGuestID)
		if rawGuestID == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrIdentityRequired)
			return
		}
		guestID, err := uuid.Parse(rawGuestID)
		if err != nil {
			response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}

		c.Set(ContextKeyIdentity, model.GuestIdentityOf(guestID))
		c.Next()
	}
}

// GetIdentity retrieves the resolved identity from the Gin context.
func GetIdentity(c *gin.Context) (model.Identity, bool) {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := val.(model.Identity)
	return identity, ok
}
