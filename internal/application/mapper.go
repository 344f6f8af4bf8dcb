package application

import (
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

// UserToModel converts a persisted user to its wire form. AccountIds is always
// set, empty when the user has no memberships.
func UserToModel(u *entity.User) api.User {
	id := u.ID
	accountIDs := u.Accounts.Slice()
	return api.User{
		Id:         &id,
		Email:      u.Email,
		Name:       u.Name,
		Surname:    u.Surname,
		AccountIds: &accountIDs,
	}
}

// UserFromModel builds a fresh entity from the wire form. The client supplied
// id and accountIds are ignored; identity is assigned by the store and
// memberships only change through link and unlink.
func UserFromModel(m api.User) *entity.User {
	return entity.NewUser(m.Email, m.Name, m.Surname)
}

func AccountToModel(a *entity.Account) api.Account {
	id := a.ID
	userIDs := a.Users.Slice()
	return api.Account{
		Id:       &id,
		Name:     a.Name,
		Industry: a.Type,
		UserIds:  &userIDs,
	}
}

func AccountFromModel(m api.Account) *entity.Account {
	return entity.NewAccount(m.Name, m.Industry)
}

func usersToModels(users []*entity.User) []api.User {
	out := make([]api.User, 0, len(users))
	for _, u := range users {
		out = append(out, UserToModel(u))
	}
	return out
}

func accountsToModels(accounts []*entity.Account) []api.Account {
	out := make([]api.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountToModel(a))
	}
	return out
}
