package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
)

func TestAccountRepository_FindAll_MaterializesUsers(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(q(`SELECT id, name, industry FROM accounts ORDER BY id`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "industry"}).
			AddRow(int64(10), "Acme", "Tech"))
	mock.ExpectQuery(q(`SELECT account_id, user_id FROM user_accounts`)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "user_id"}).
			AddRow(int64(10), int64(1)).
			AddRow(int64(10), int64(2)))

	accounts, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Tech", accounts[0].Type)
	assert.Equal(t, []int64{1, 2}, accounts[0].Users.Slice())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(q(`SELECT id, name, industry FROM accounts WHERE id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "industry"}).
			AddRow(int64(10), "Acme", "Tech"))
	mock.ExpectQuery(q(`SELECT user_id FROM user_accounts WHERE account_id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

	a, err := repo.FindByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Acme", a.Name)
	assert.Equal(t, 0, a.Users.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(q(`FROM accounts WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "industry"}))

	_, err := repo.FindByIDForUpdate(context.Background(), 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Save_DoesNotTouchJoinTable(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(q(`INSERT INTO accounts`)).
		WithArgs("Acme", "Tech").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectExec(q(`UPDATE accounts`)).
		WithArgs("Acme", "Finance", int64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	a := entity.NewAccount("Acme", "Tech")
	a.Users.Add(1)
	require.NoError(t, repo.Save(context.Background(), a))
	assert.Equal(t, int64(10), a.ID)

	a.Type = "Finance"
	require.NoError(t, repo.Save(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}
