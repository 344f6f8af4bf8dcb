package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
)

// UserRepository persists users. Save also writes the user's account set to the
// join table, which makes the user the owning side of the membership.
// The repository does not keep the account side in sync; callers do.
type UserRepository interface {
	CrudRepository[entity.User]
	// FindByIDForUpdate loads the user and locks its row until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.User, error)
}
