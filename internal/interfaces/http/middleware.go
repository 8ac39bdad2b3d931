package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cmcs/claimflow/internal/domain/claim"
)

const identityKey = "actor"

// identityMiddleware extracts the acting identity supplied by the upstream
// identity provider. Authentication itself happens outside this service; a
// request without identity headers is rejected.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-Actor-Id")
		rolesHeader := c.GetHeader("X-Actor-Roles")
		if userID == "" || rolesHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing actor identity headers",
			})
			return
		}

		var roles []claim.Role
		for _, part := range strings.Split(rolesHeader, ",") {
			role := claim.Role(strings.ToUpper(strings.TrimSpace(part)))
			if role.IsValid() {
				roles = append(roles, role)
			}
		}

		c.Set(identityKey, claim.Identity{
			UserID: userID,
			Name:   c.GetHeader("X-Actor-Name"),
			Email:  c.GetHeader("X-Actor-Email"),
			Roles:  roles,
		})
		c.Next()
	}
}

func actorFrom(c *gin.Context) claim.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(claim.Identity); ok {
			return id
		}
	}
	return claim.Identity{}
}
