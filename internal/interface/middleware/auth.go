package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-membership-api/pkg/response"
)

const (
	CtxPrincipalKey = "principal"
	CtxUserIDKey    = "userID"
)

// TokenVerifier turns a bearer token into the calling principal.
type TokenVerifier interface {
	Verify(token string) (*helpers.Principal, error)
}

// Authenticate requires a valid "Authorization: Bearer <jwt>" header on every
// request except the exact paths in skip. The principal is stored under
// CtxPrincipalKey and its subject under CtxUserIDKey.
func Authenticate(verifier TokenVerifier, skip ...string) gin.HandlerFunc {
	open := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		open[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := open[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer`)
			response.Error(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		p, err := verifier.Verify(token)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			response.Error(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		c.Set(CtxPrincipalKey, p)
		c.Set(CtxUserIDKey, p.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// PrincipalFrom returns the principal set by Authenticate, or nil.
func PrincipalFrom(c *gin.Context) *helpers.Principal {
	p, _ := c.Get(CtxPrincipalKey)
	principal, _ := p.(*helpers.Principal)
	return principal
}
