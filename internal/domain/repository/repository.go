package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no row exists for the requested primary key.
var ErrNotFound = errors.New("not found")

// CrudRepository is the generic persistence gateway over an int64 primary key.
type CrudRepository[T any] interface {
	FindAll(ctx context.Context) ([]*T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	// Save inserts the entity when its ID is zero, assigning the generated ID,
	// and updates it otherwise.
	Save(ctx context.Context, e *T) error
}

// Transactor runs fn inside a single database transaction. Repositories called
// with the ctx handed to fn take part in that transaction. Nested calls join the
// outer transaction instead of opening a new one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
