// Package store is the durable side of the service: short links and users
// kept in a relational database through GORM.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MagnunAVF/clicklink/internal"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/MagnunAVF/clicklink/internal/store Repository

var ErrNotFound = errors.New("store: record not found")

// DuplicateError reports a unique-constraint violation by constraint (index)
// name, e.g. internal.IndexUserEmail.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("store: duplicate value violates %q: %v", e.Constraint, e.Err)
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// DuplicateConstraint returns the violated constraint name when err is a
// unique-constraint violation.
func DuplicateConstraint(err error) (string, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Constraint, true
	}
	return "", false
}

// Repository is the CRUD contract the services depend on. Calls made on the
// Repository handed to a Transaction callback run inside that transaction.
type Repository interface {
	// Transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// CreateURL inserts u and returns the id assigned by the database.
	CreateURL(ctx context.Context, u internal.URL) (int64, error)
	SetShortCode(ctx context.Context, id int64, code string) error
	URLByID(ctx context.Context, id int64) (internal.URL, error)
	URLByShortCode(ctx context.Context, code string) (internal.URL, error)
	URLsByOwner(ctx context.Context, owner uuid.UUID) ([]internal.URL, error)
	SetClicks(ctx context.Context, code string, clicks int64) error

	CreateUser(ctx context.Context, u internal.User) error
	UserByID(ctx context.Context, id uuid.UUID) (internal.User, error)
	UserByEmail(ctx context.Context, email string) (internal.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
}
