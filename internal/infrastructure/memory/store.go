// Package memory is an in-process implementation of the repository and
// transactor interfaces. It mirrors the postgres layer, including the
// owning-side write of memberships and rollback on error, and backs the
// service and router tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
)

// ErrForeignKey mirrors a foreign key violation on user_accounts.
var ErrForeignKey = errors.New("foreign key violation")

type userRow struct{ email, name, surname string }

type accountRow struct{ name, industry string }

type pair struct{ userID, accountID int64 }

type snapshot struct {
	nextUserID, nextAccountID int64
	users                     map[int64]userRow
	accounts                  map[int64]accountRow
	members                   map[pair]struct{}
}

// Store holds the three tables. A transaction holds the store lock for its
// whole duration, so transactions are serialized.
type Store struct {
	mu   sync.Mutex
	data snapshot
}

func NewStore() *Store {
	return &Store{data: snapshot{
		users:    map[int64]userRow{},
		accounts: map[int64]accountRow{},
		members:  map[pair]struct{}{},
	}}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) acquire(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = saved
			panic(p)
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.data = saved
		return err
	}
	return nil
}

func (d snapshot) clone() snapshot {
	out := snapshot{
		nextUserID:    d.nextUserID,
		nextAccountID: d.nextAccountID,
		users:         make(map[int64]userRow, len(d.users)),
		accounts:      make(map[int64]accountRow, len(d.accounts)),
		members:       make(map[pair]struct{}, len(d.members)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.accounts {
		out.accounts[k] = v
	}
	for k := range d.members {
		out.members[k] = struct{}{}
	}
	return out
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

// Linked reports whether the join table holds the pair.
func (s *Store) Linked(userID, accountID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.members[pair{userID, accountID}]
	return ok
}

func (d snapshot) accountIDsOf(userID int64) entity.IDSet {
	ids := entity.IDSet{}
	for p := range d.members {
		if p.userID == userID {
			ids.Add(p.accountID)
		}
	}
	return ids
}

func (d snapshot) userIDsOf(accountID int64) entity.IDSet {
	ids := entity.IDSet{}
	for p := range d.members {
		if p.accountID == accountID {
			ids.Add(p.userID)
		}
	}
	return ids
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type UserRepository struct{ s *Store }

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	defer r.s.acquire(ctx)()
	d := r.s.data
	out := make([]*entity.User, 0, len(d.users))
	for _, id := range sortedKeys(d.users) {
		out = append(out, d.user(id))
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.data.users[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.data.user(id), nil
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	defer r.s.acquire(ctx)()
	d := &r.s.data

	for id := range u.Accounts {
		if _, ok := d.accounts[id]; !ok {
			return fmt.Errorf("account %d: %w", id, ErrForeignKey)
		}
	}
	if u.ID == 0 {
		d.nextUserID++
		u.ID = d.nextUserID
	} else if _, ok := d.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	d.users[u.ID] = userRow{email: u.Email, name: u.Name, surname: u.Surname}

	for p := range d.members {
		if p.userID == u.ID && !u.Accounts.Has(p.accountID) {
			delete(d.members, p)
		}
	}
	for id := range u.Accounts {
		d.members[pair{u.ID, id}] = struct{}{}
	}
	return nil
}

func (d snapshot) user(id int64) *entity.User {
	row := d.users[id]
	return &entity.User{ID: id, Email: row.email, Name: row.name, Surname: row.surname, Accounts: d.accountIDsOf(id)}
}

type AccountRepository struct{ s *Store }

func (r *AccountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	defer r.s.acquire(ctx)()
	d := r.s.data
	out := make([]*entity.Account, 0, len(d.accounts))
	for _, id := range sortedKeys(d.accounts) {
		out = append(out, d.account(id))
	}
	return out, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.data.accounts[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.data.account(id), nil
}

func (r *AccountRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return r.FindByID(ctx, id)
}

// Save writes scalars only, like the postgres implementation.
func (r *AccountRepository) Save(ctx context.Context, a *entity.Account) error {
	defer r.s.acquire(ctx)()
	d := &r.s.data

	if a.ID == 0 {
		d.nextAccountID++
		a.ID = d.nextAccountID
	} else if _, ok := d.accounts[a.ID]; !ok {
		return repository.ErrNotFound
	}
	if a.Users == nil {
		a.Users = entity.IDSet{}
	}
	d.accounts[a.ID] = accountRow{name: a.Name, industry: a.Type}
	return nil
}

func (d snapshot) account(id int64) *entity.Account {
	row := d.accounts[id]
	return &entity.Account{ID: id, Name: row.name, Type: row.industry, Users: d.userIDsOf(id)}
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.AccountRepository = (*AccountRepository)(nil)
	_ repository.Transactor        = (*Store)(nil)
)
