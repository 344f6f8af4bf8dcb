package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

// UsersAPI implements the user operations of api.ServerInterface.
type UsersAPI struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUsersAPI(svc *application.UserService, logger *logrus.Logger) *UsersAPI {
	return &UsersAPI{Svc: svc, Logger: logger}
}

func (h *UsersAPI) GetUsers(c *gin.Context) {
	users, err := h.Svc.GetUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UsersAPI) CreateUser(c *gin.Context) {
	var body api.CreateUserJSONRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), body)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UsersAPI) GetUser(c *gin.Context, userId api.UserId) {
	u, err := h.Svc.GetUser(c.Request.Context(), userId)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UsersAPI) SearchUsers(c *gin.Context, params api.SearchUsersParams) {
	size := 0
	if params.Size != nil {
		size = *params.Size
	}
	users, err := h.Svc.SearchUsers(c.Request.Context(), params.Q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UsersAPI) LinkUserToAccount(c *gin.Context, userId api.UserId, accountId api.AccountId) {
	if err := h.Svc.LinkUserToAccountWithMembership(c.Request.Context(), userId, accountId); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *UsersAPI) UnlinkUserFromAccount(c *gin.Context, userId api.UserId, accountId api.AccountId) {
	if err := h.Svc.UnlinkUserFromAccountWithMembership(c.Request.Context(), userId, accountId); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusOK)
}
