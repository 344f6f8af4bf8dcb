package handlers

import "github.com/oksasatya/go-ddd-membership-api/pkg/api"

// Server composes the per-resource handlers into the generated interface.
type Server struct {
	*UsersAPI
	*AccountsAPI
	*HealthAPI
}

func NewServer(users *UsersAPI, accounts *AccountsAPI, health *HealthAPI) *Server {
	return &Server{UsersAPI: users, AccountsAPI: accounts, HealthAPI: health}
}

var _ api.ServerInterface = (*Server)(nil)
