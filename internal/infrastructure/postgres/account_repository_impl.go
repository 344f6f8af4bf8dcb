package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
)

const (
	selectAccounts          = `SELECT id, name, industry FROM accounts`
	selectAccountMembership = `SELECT account_id, user_id FROM user_accounts ORDER BY account_id, user_id`
	selectUserIDs           = `SELECT user_id FROM user_accounts WHERE account_id = $1 ORDER BY user_id`
)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	q := conn(ctx, r.db)

	rows, err := q.Query(ctx, selectAccounts+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	accounts := make([]*entity.Account, 0)
	byID := make(map[int64]*entity.Account)
	for rows.Next() {
		a := &entity.Account{Users: entity.IDSet{}}
		if err := rows.Scan(&a.ID, &a.Name, &a.Type); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
		byID[a.ID] = a
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	err = eachMembership(ctx, q, selectAccountMembership, func(accountID, userID int64) {
		if a, ok := byID[accountID]; ok {
			a.Users.Add(userID)
		}
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	return r.findByID(ctx, selectAccounts+` WHERE id = $1`, id)
}

func (r *AccountRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return r.findByID(ctx, selectAccounts+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepository) findByID(ctx context.Context, query string, id int64) (*entity.Account, error) {
	q := conn(ctx, r.db)

	a := &entity.Account{}
	if err := q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Type); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query account %d: %w", id, err)
	}

	ids, err := collectIDs(ctx, q, selectUserIDs, id)
	if err != nil {
		return nil, err
	}
	a.Users = entity.NewIDSet(ids...)
	return a, nil
}

// Save writes the scalar columns only. Memberships are persisted through
// UserRepository.Save.
func (r *AccountRepository) Save(ctx context.Context, a *entity.Account) error {
	q := conn(ctx, r.db)
	if a.Users == nil {
		a.Users = entity.IDSet{}
	}

	if a.ID == 0 {
		err := q.QueryRow(ctx, `
			INSERT INTO accounts (name, industry)
			VALUES ($1, $2)
			RETURNING id
		`, a.Name, a.Type).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	}

	tag, err := q.Exec(ctx, `
		UPDATE accounts
		SET name = $1, industry = $2
		WHERE id = $3
	`, a.Name, a.Type, a.ID)
	if err != nil {
		return fmt.Errorf("update account %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
