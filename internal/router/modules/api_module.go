package modules

import (
	"path"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-ddd-membership-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-membership-api/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

// APIModule wires the generated contract routes behind bearer authentication
// and the route authority policy.
// Public: GET /health
// Protected: every other contract route
type APIModule struct {
	Server   api.ServerInterface
	Verifier middleware.TokenVerifier
	Policy   middleware.Policy
	Logger   *logrus.Logger
}

func NewAPIModule(server api.ServerInterface, verifier middleware.TokenVerifier, policy middleware.Policy, logger *logrus.Logger) *APIModule {
	return &APIModule{Server: server, Verifier: verifier, Policy: policy, Logger: logger}
}

// DefaultPolicy guards the user listing and search with readAuthority.
func DefaultPolicy(basePath, readAuthority string) middleware.Policy {
	return middleware.Policy{
		"GET " + path.Join("/", basePath, "users"):           {readAuthority},
		"GET " + path.Join("/", basePath, "users", "search"): {readAuthority},
	}
}

func (m *APIModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("")
	g.Use(
		middleware.Authenticate(m.Verifier, path.Join("/", rg.BasePath(), "health")),
		middleware.Authorize(m.Policy, m.Logger),
	)
	api.RegisterHandlersWithOptions(g, m.Server, api.GinServerOptions{
		ErrorHandler: handlers.ParamErrorHandler,
	})
}
