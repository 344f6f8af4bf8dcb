package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

func TestAccountService_CreateAndList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.accounts.CreateAccount(ctx, api.Account{Name: "Acme", Industry: "Finance"})
	require.NoError(t, err)
	require.NotNil(t, a.Id)
	assert.Equal(t, "Finance", a.Industry)
	require.NotNil(t, a.UserIds)
	assert.Empty(t, *a.UserIds)

	all, err := f.accounts.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.Account{a}, all)
}

func TestAccountService_GetAccount_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.accounts.GetAccount(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_CreateWithUsersWritesOwningSide(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, "a@x.com")

	ids := []int64{*u.Id}
	a, err := f.accounts.CreateAccount(ctx, api.Account{Name: "Acme", Industry: "Tech", UserIds: &ids})
	require.NoError(t, err)

	assert.Equal(t, ids, *a.UserIds)
	assert.True(t, f.store.Linked(*u.Id, *a.Id))
	f.assertSymmetric(t, *u.Id, *a.Id, true)
}

func TestAccountService_CreateWithUnknownUserCreatesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ids := []int64{12}
	_, err := f.accounts.CreateAccount(ctx, api.Account{Name: "Acme", UserIds: &ids})
	assert.ErrorIs(t, err, ErrUserNotFound)

	all, err := f.accounts.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
