package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-membership-api/internal/domain/entity"
)

// AccountRepository persists accounts. Save writes scalar fields only; the
// Users set is materialized from the join table on every read.
type AccountRepository interface {
	CrudRepository[entity.Account]
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Account, error)
}
