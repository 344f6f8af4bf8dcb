package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestUserRepository_FindAll_MaterializesAccounts(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(`SELECT id, email, name, surname FROM users ORDER BY id`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "surname"}).
			AddRow(int64(1), "a@x.com", "A", "B").
			AddRow(int64(2), "c@x.com", "C", "D"))
	mock.ExpectQuery(q(`SELECT user_id, account_id FROM user_accounts`)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "account_id"}).
			AddRow(int64(1), int64(10)).
			AddRow(int64(1), int64(11)))

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@x.com", users[0].Email)
	assert.Equal(t, []int64{10, 11}, users[0].Accounts.Slice())
	assert.Equal(t, []int64{}, users[1].Accounts.Slice())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(`SELECT id, email, name, surname FROM users WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "surname"}))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDForUpdate_LocksRow(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(`FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "surname"}).
			AddRow(int64(1), "a@x.com", "A", "B"))
	mock.ExpectQuery(q(`SELECT account_id FROM user_accounts WHERE user_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id"}).AddRow(int64(42)))

	u, err := repo.FindByIDForUpdate(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, u.Accounts.Has(42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Save_InsertAssignsID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(`INSERT INTO users`)).
		WithArgs("a@x.com", "A", "B").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	u := entity.NewUser("a@x.com", "A", "B")
	require.NoError(t, repo.Save(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Save_InsertWithAccountsWritesJoinRows(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(`INSERT INTO users`)).
		WithArgs("a@x.com", "A", "B").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(q(`INSERT INTO user_accounts`)).
		WithArgs(int64(7), []int64{2, 3}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	u := entity.NewUser("a@x.com", "A", "B")
	u.Accounts.Add(3)
	u.Accounts.Add(2)
	require.NoError(t, repo.Save(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Save_UpdateSyncsMemberships(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q(`UPDATE users`)).
		WithArgs("a@x.com", "A", "B", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q(`DELETE FROM user_accounts`)).
		WithArgs(int64(7), []int64{}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	u := &entity.User{ID: 7, Email: "a@x.com", Name: "A", Surname: "B", Accounts: entity.IDSet{}}
	require.NoError(t, repo.Save(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Save_UpdateUnknownUser(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q(`UPDATE users`)).
		WithArgs("a@x.com", "A", "B", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	u := &entity.User{ID: 7, Email: "a@x.com", Name: "A", Surname: "B"}
	assert.ErrorIs(t, repo.Save(context.Background(), u), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_QueryErrorIsWrapped(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	boom := errors.New("connection reset")

	mock.ExpectQuery(q(`SELECT id, email, name, surname FROM users ORDER BY id`)).WillReturnError(boom)

	_, err := repo.FindAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
