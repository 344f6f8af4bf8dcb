package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
)

type AccountService struct {
	Accounts repo.AccountRepository
	Users    repo.UserRepository
	Tx       repo.Transactor
	Events   EventPublisher
	Logger   *logrus.Logger
}

func NewAccountService(accounts repo.AccountRepository, users repo.UserRepository, tx repo.Transactor, events EventPublisher, logger *logrus.Logger) *AccountService {
	return &AccountService{Accounts: accounts, Users: users, Tx: tx, Events: events, Logger: logger}
}

func (s *AccountService) GetAccounts(ctx context.Context) ([]api.Account, error) {
	accounts, err := s.Accounts.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return accountsToModels(accounts), nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (api.Account, error) {
	a, err := s.Accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return api.Account{}, ErrAccountNotFound
		}
		return api.Account{}, err
	}
	return AccountToModel(a), nil
}

// CreateAccount persists a new account. userIds in the body are linked in the
// same transaction, written through each user since the user owns the
// membership. An unknown user aborts with ErrUserNotFound.
func (s *AccountService) CreateAccount(ctx context.Context, m api.Account) (api.Account, error) {
	account := AccountFromModel(m)
	var userIDs []int64
	if m.UserIds != nil {
		userIDs = entity.NewIDSet(*m.UserIds...).Slice()
	}

	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Accounts.Save(ctx, account); err != nil {
			return err
		}
		for _, userID := range userIDs {
			u, err := s.Users.FindByIDForUpdate(ctx, userID)
			if err != nil {
				return userLookupErr(err)
			}
			u.Accounts.Add(account.ID)
			account.Users.Add(userID)
			if err := s.Users.Save(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return api.Account{}, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"account_id": account.ID, "users": len(userIDs)}).Info("account created")
	}
	for _, userID := range userIDs {
		publish(ctx, s.Events, s.Logger, newEvent(EventMembershipLinked, userID, account.ID))
	}
	return AccountToModel(account), nil
}
