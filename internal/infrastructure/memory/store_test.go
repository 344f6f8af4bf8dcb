package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
)

func TestStore_UserSaveSyncsMemberships(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a := entity.NewAccount("Acme", "Tech")
	require.NoError(t, s.Accounts().Save(ctx, a))
	u := entity.NewUser("a@x.com", "A", "B")
	u.Accounts.Add(a.ID)
	require.NoError(t, s.Users().Save(ctx, u))

	got, err := s.Accounts().FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Users.Has(u.ID))

	u.Accounts.Remove(a.ID)
	require.NoError(t, s.Users().Save(ctx, u))
	assert.False(t, s.Linked(u.ID, a.ID))
}

func TestStore_AccountSaveIgnoresUsers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u := entity.NewUser("a@x.com", "A", "B")
	require.NoError(t, s.Users().Save(ctx, u))
	a := entity.NewAccount("Acme", "Tech")
	a.Users.Add(u.ID)
	require.NoError(t, s.Accounts().Save(ctx, a))

	assert.False(t, s.Linked(u.ID, a.ID))
}

func TestStore_UnknownRows(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Users().FindByID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Users().Save(ctx, &entity.User{ID: 7}), repository.ErrNotFound)

	u := entity.NewUser("a@x.com", "A", "B")
	u.Accounts.Add(99)
	assert.ErrorIs(t, s.Users().Save(ctx, u), ErrForeignKey)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Users().Save(ctx, entity.NewUser("a@x.com", "A", "B")))
		return s.WithinTransaction(ctx, func(ctx context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	all, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Panics(t, func() {
		_ = s.WithinTransaction(ctx, func(ctx context.Context) error {
			_ = s.Users().Save(ctx, entity.NewUser("b@x.com", "B", "C"))
			panic("boom")
		})
	})
	all, err = s.Users().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
