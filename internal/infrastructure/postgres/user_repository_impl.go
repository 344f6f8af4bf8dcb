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
	selectUsers          = `SELECT id, email, name, surname FROM users`
	selectUserMembership = `SELECT user_id, account_id FROM user_accounts ORDER BY user_id, account_id`
	selectAccountIDs     = `SELECT account_id FROM user_accounts WHERE user_id = $1 ORDER BY account_id`
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	q := conn(ctx, r.db)

	rows, err := q.Query(ctx, selectUsers+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users := make([]*entity.User, 0)
	byID := make(map[int64]*entity.User)
	for rows.Next() {
		u := &entity.User{Accounts: entity.IDSet{}}
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Surname); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
		byID[u.ID] = u
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	err = eachMembership(ctx, q, selectUserMembership, func(userID, accountID int64) {
		if u, ok := byID[userID]; ok {
			u.Accounts.Add(accountID)
		}
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findByID(ctx, selectUsers+` WHERE id = $1`, id)
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.findByID(ctx, selectUsers+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepository) findByID(ctx context.Context, query string, id int64) (*entity.User, error) {
	q := conn(ctx, r.db)

	u := &entity.User{}
	if err := q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Surname); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}

	ids, err := collectIDs(ctx, q, selectAccountIDs, id)
	if err != nil {
		return nil, err
	}
	u.Accounts = entity.NewIDSet(ids...)
	return u, nil
}

// Save writes the scalar columns and then makes user_accounts match u.Accounts.
// Call it inside a transaction so both steps commit together.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	q := conn(ctx, r.db)
	if u.Accounts == nil {
		u.Accounts = entity.IDSet{}
	}

	isNew := u.ID == 0
	if isNew {
		err := q.QueryRow(ctx, `
			INSERT INTO users (email, name, surname)
			VALUES ($1, $2, $3)
			RETURNING id
		`, u.Email, u.Name, u.Surname).Scan(&u.ID)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
	} else {
		tag, err := q.Exec(ctx, `
			UPDATE users
			SET email = $1, name = $2, surname = $3
			WHERE id = $4
		`, u.Email, u.Name, u.Surname, u.ID)
		if err != nil {
			return fmt.Errorf("update user %d: %w", u.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
	}

	accountIDs := u.Accounts.Slice()
	if !isNew {
		if _, err := q.Exec(ctx, `
			DELETE FROM user_accounts
			WHERE user_id = $1 AND NOT (account_id = ANY($2))
		`, u.ID, accountIDs); err != nil {
			return fmt.Errorf("prune memberships of user %d: %w", u.ID, err)
		}
	}
	if len(accountIDs) > 0 {
		if _, err := q.Exec(ctx, `
			INSERT INTO user_accounts (user_id, account_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING
		`, u.ID, accountIDs); err != nil {
			return fmt.Errorf("insert memberships of user %d: %w", u.ID, err)
		}
	}
	return nil
}

// eachMembership streams (owner, other) id pairs from a two-column join query.
func eachMembership(ctx context.Context, q DBTX, query string, fn func(a, b int64)) error {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query memberships: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a, b int64
		if err := rows.Scan(&a, &b); err != nil {
			return fmt.Errorf("scan membership: %w", err)
		}
		fn(a, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate memberships: %w", err)
	}
	return nil
}

func collectIDs(ctx context.Context, q DBTX, query string, id int64) ([]int64, error) {
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query membership ids: %w", err)
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan membership id: %w", err)
		}
		ids = append(ids, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate membership ids: %w", err)
	}
	return ids, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
