package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

// UserSearcher queries the user directory index.
type UserSearcher interface {
	Search(ctx context.Context, query string, size int) ([]api.User, error)
}

// UserService owns the user side of the membership and every link/unlink
// transition. Both sides of a pair are changed in one transaction.
type UserService struct {
	Users    repo.UserRepository
	Accounts repo.AccountRepository
	Tx       repo.Transactor
	Events   EventPublisher
	Search   UserSearcher
	Logger   *logrus.Logger
}

func NewUserService(users repo.UserRepository, accounts repo.AccountRepository, tx repo.Transactor, events EventPublisher, search UserSearcher, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:    users,
		Accounts: accounts,
		Tx:       tx,
		Events:   events,
		Search:   search,
		Logger:   logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context) ([]api.User, error) {
	users, err := s.Users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return usersToModels(users), nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (api.User, error) {
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.User{}, ErrUserNotFound
		}
		return api.User{}, err
	}
	return UserToModel(u), nil
}

// CreateUser persists a new user. When the body carries accountIds the user is
// created as a member of those accounts; see CreateUserWithMemberships.
func (s *UserService) CreateUser(ctx context.Context, m api.User) (api.User, error) {
	var accountIDs []int64
	if m.AccountIds != nil {
		accountIDs = *m.AccountIds
	}
	return s.CreateUserWithMemberships(ctx, m, accountIDs)
}

// CreateUserWithMemberships inserts the user and links it to accountIDs in the
// same transaction. An unknown account aborts the whole operation with
// ErrAccountNotFound.
func (s *UserService) CreateUserWithMemberships(ctx context.Context, m api.User, accountIDs []int64) (api.User, error) {
	user := UserFromModel(m)
	ids := entity.NewIDSet(accountIDs...).Slice()

	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		accounts := make([]*entity.Account, 0, len(ids))
		for _, accountID := range ids {
			a, err := s.Accounts.FindByIDForUpdate(ctx, accountID)
			if err != nil {
				return accountLookupErr(err)
			}
			accounts = append(accounts, a)
			user.Accounts.Add(accountID)
		}
		if err := s.Users.Save(ctx, user); err != nil {
			return err
		}
		for _, a := range accounts {
			a.Users.Add(user.ID)
			if err := s.Accounts.Save(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return api.User{}, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": user.ID, "accounts": len(ids)}).Info("user created")
	}
	publish(ctx, s.Events, s.Logger, newEvent(EventUserCreated, user.ID, 0))
	for _, accountID := range ids {
		publish(ctx, s.Events, s.Logger, newEvent(EventMembershipLinked, user.ID, accountID))
	}
	return UserToModel(user), nil
}

// LinkUserToAccountWithMembership adds the account to the user and the user to
// the account. Linking an already linked pair changes nothing.
func (s *UserService) LinkUserToAccountWithMembership(ctx context.Context, userID, accountID int64) error {
	changed := false
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, account, err := s.lockPair(ctx, userID, accountID)
		if err != nil {
			return err
		}
		addedToUser := user.Accounts.Add(accountID)
		addedToAccount := account.Users.Add(userID)
		if !addedToUser && !addedToAccount {
			return nil
		}
		if err := s.Users.Save(ctx, user); err != nil {
			return err
		}
		if err := s.Accounts.Save(ctx, account); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": userID, "account_id": accountID}).Info("user linked to account")
		}
		publish(ctx, s.Events, s.Logger, newEvent(EventMembershipLinked, userID, accountID))
	}
	return nil
}

// UnlinkUserFromAccountWithMembership removes the pair from both sides.
// Unlinking a pair that is not linked changes nothing.
func (s *UserService) UnlinkUserFromAccountWithMembership(ctx context.Context, userID, accountID int64) error {
	changed := false
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, account, err := s.lockPair(ctx, userID, accountID)
		if err != nil {
			return err
		}
		removedFromUser := user.Accounts.Remove(accountID)
		removedFromAccount := account.Users.Remove(userID)
		if !removedFromUser && !removedFromAccount {
			return nil
		}
		if err := s.Users.Save(ctx, user); err != nil {
			return err
		}
		if err := s.Accounts.Save(ctx, account); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": userID, "account_id": accountID}).Info("user unlinked from account")
		}
		publish(ctx, s.Events, s.Logger, newEvent(EventMembershipUnlinked, userID, accountID))
	}
	return nil
}

// SearchUsers runs a directory search. It returns an empty result when search
// is not configured.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]api.User, error) {
	if s.Search == nil {
		return []api.User{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Search.Search(ctx, q, size)
}

// lockPair locks the user row before the account row. Every writer of
// user_accounts takes locks in this order.
func (s *UserService) lockPair(ctx context.Context, userID, accountID int64) (*entity.User, *entity.Account, error) {
	user, err := s.Users.FindByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, userLookupErr(err)
	}
	account, err := s.Accounts.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, nil, accountLookupErr(err)
	}
	return user, account, nil
}

func userLookupErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func accountLookupErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}
