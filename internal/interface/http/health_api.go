package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
)

type HealthAPI struct {
	Svc *application.HealthService
}

func NewHealthAPI(svc *application.HealthService) *HealthAPI {
	return &HealthAPI{Svc: svc}
}

// GetHealth answers 200 when every contributor is up and 500 otherwise.
func (h *HealthAPI) GetHealth(c *gin.Context) {
	report := h.Svc.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Up() {
		status = http.StatusInternalServerError
	}
	c.JSON(status, report)
}
