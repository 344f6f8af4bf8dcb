package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

// AccountsAPI implements the account operations of api.ServerInterface.
type AccountsAPI struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountsAPI(svc *application.AccountService, logger *logrus.Logger) *AccountsAPI {
	return &AccountsAPI{Svc: svc, Logger: logger}
}

func (h *AccountsAPI) GetAccounts(c *gin.Context) {
	accounts, err := h.Svc.GetAccounts(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountsAPI) CreateAccount(c *gin.Context) {
	var body api.CreateAccountJSONRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}
	a, err := h.Svc.CreateAccount(c.Request.Context(), body)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AccountsAPI) GetAccount(c *gin.Context, accountId api.AccountId) {
	a, err := h.Svc.GetAccount(c.Request.Context(), accountId)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
