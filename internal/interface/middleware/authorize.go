package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/pkg/response"
)

// Policy maps "METHOD /route/pattern" to the authorities that grant access.
// Holding any one of them is enough. Routes without an entry only need an
// authenticated caller.
type Policy map[string][]string

// Authorize enforces policy against the principal set by Authenticate. It must
// run after routing so that c.FullPath() holds the matched pattern.
func Authorize(policy Policy, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		required, ok := policy[c.Request.Method+" "+c.FullPath()]
		if !ok || len(required) == 0 {
			c.Next()
			return
		}

		p := PrincipalFrom(c)
		if p == nil {
			response.Error(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		if !p.HasAny(required...) {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"subject":    p.Subject,
					"route":      c.FullPath(),
					"request_id": c.GetString("request_id"),
				}).Warn("access denied")
			}
			response.Error(c, http.StatusForbidden, "insufficient authority", nil)
			return
		}
		c.Next()
	}
}
