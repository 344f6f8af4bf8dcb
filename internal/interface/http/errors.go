package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-membership-api/pkg/response"
	"github.com/oksasatya/go-ddd-membership-api/pkg/validation"
)

// writeError maps service errors to the HTTP error taxonomy. Anything that is
// not a known not-found condition is a 500 and is logged.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrAccountNotFound):
		response.Error(c, http.StatusNotFound, "account not found", nil)
	default:
		_ = c.Error(err)
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"route":      c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// writeBindError answers malformed or invalid bodies with 400 and field details.
func writeBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// ParamErrorHandler is the generated wrapper's ErrorHandler: invalid path or
// query parameters become 400.
func ParamErrorHandler(c *gin.Context, err error, status int) {
	response.Error(c, status, err.Error(), nil)
}
