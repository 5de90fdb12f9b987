package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mediahub-api/internal/policy"
	appErrors "github.com/noah-isme/mediahub-api/pkg/errors"
	"github.com/noah-isme/mediahub-api/pkg/response"
)

// Authorize gates a route on the policy table. Own-scope grants pass here;
// handlers and services check ownership against the loaded record.
func Authorize(pol *policy.Policy, resource policy.Resource, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !pol.Permits(claims.Role, resource, action) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}
