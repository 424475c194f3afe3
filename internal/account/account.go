// Package account manages an authenticated user's own profile.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MagnunAVF/clicklink/internal"
	"github.com/MagnunAVF/clicklink/internal/apperror"
	"github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/store"
)

const (
	markerAttempts = 3
	markerBackoff  = 50 * time.Millisecond
)

// Credentials is the part of auth.Authority the account service needs.
type Credentials interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
	RecordPasswordChange(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type Service struct {
	repo    store.Repository
	creds   Credentials
	now     func() time.Time
	backoff time.Duration
}

func NewService(repo store.Repository, creds Credentials) *Service {
	return &Service{repo: repo, creds: creds, now: time.Now, backoff: markerBackoff}
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*internal.User, error) {
	user, err := s.repo.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Error("Failed to load user", "user_id", id, "err", err)
		return nil, apperror.Internal(err)
	}
	return &user, nil
}

// ChangePassword replaces the password and then revokes the user's earlier
// tokens. When the revocation marker cannot be written the new password
// stays in place and earlier tokens remain valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	log := logger.FromContext(ctx).With("user_id", id)

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if !s.creds.VerifyPassword(current, user.Password) {
		return apperror.ErrInvalidPassword
	}

	hash, err := s.creds.HashPassword(next)
	if err != nil {
		log.Error("Failed to hash password", "err", err)
		return apperror.Internal(err)
	}
	err = s.repo.Transaction(ctx, func(tx store.Repository) error {
		return tx.UpdatePassword(ctx, id, hash)
	})
	if errors.Is(err, store.ErrNotFound) {
		return apperror.ErrUserNotFound
	}
	if err != nil {
		log.Error("Failed to update password", "err", err)
		return apperror.Internal(err)
	}

	if err := s.recordChange(ctx, id); err != nil {
		log.Error("Password changed but earlier tokens were not revoked", "err", err)
	}
	log.Info("Password changed")
	return nil
}

func (s *Service) ChangeUsername(ctx context.Context, id uuid.UUID, username string) (*internal.User, error) {
	log := logger.FromContext(ctx).With("user_id", id)

	err := s.repo.Transaction(ctx, func(tx store.Repository) error {
		return tx.UpdateUsername(ctx, id, username)
	})
	if constraint, ok := store.DuplicateConstraint(err); ok && constraint == internal.IndexUserUsername {
		return nil, apperror.ErrUsernameTaken
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		log.Error("Failed to update username", "err", err)
		return nil, apperror.Internal(err)
	}

	log.Info("Username changed")
	return s.GetProfile(ctx, id)
}

func (s *Service) recordChange(ctx context.Context, id uuid.UUID) error {
	at := s.now().UTC()
	var err error
	for attempt := 1; attempt <= markerAttempts; attempt++ {
		if err = s.creds.RecordPasswordChange(ctx, id, at); err == nil {
			return nil
		}
		if attempt == markerAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	return fmt.Errorf("after %d attempts: %w", markerAttempts, err)
}
