// Package auth hashes credentials, issues access tokens and verifies them
// against the password-change markers kept in the cache.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MagnunAVF/clicklink/internal"
	"github.com/MagnunAVF/clicklink/internal/apperror"
	"github.com/MagnunAVF/clicklink/internal/cache"
	"github.com/MagnunAVF/clicklink/internal/logger"
	"github.com/MagnunAVF/clicklink/internal/store"
)

const TokenType = "bearer"

type Config struct {
	SecretKey  string
	TokenTTL   time.Duration
	BcryptCost int
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenData is what a verified token says about its bearer.
type TokenData struct {
	Email    string
	UserID   uuid.UUID
	IssuedAt time.Time
}

// Claims carries the email as the subject and the user id under "id".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type Authority struct {
	repo  store.Repository
	cache cache.Cache
	cfg   Config
	now   func() time.Time
}

type Option func(*Authority)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) { a.now = now }
}

func NewAuthority(repo store.Repository, c cache.Cache, cfg Config, opts ...Option) *Authority {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	a := &Authority{repo: repo, cache: c, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Authority) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (a *Authority) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates an account. Duplicate email or username is a conflict.
func (a *Authority) Register(ctx context.Context, email, username, password string) (*internal.User, error) {
	log := logger.FromContext(ctx)

	hash, err := a.HashPassword(password)
	if err != nil {
		log.Error("Failed to hash password", "err", err)
		return nil, apperror.Internal(err)
	}
	user := internal.User{ID: uuid.New(), Email: email, Username: username, Password: hash}

	err = a.repo.Transaction(ctx, func(tx store.Repository) error {
		return tx.CreateUser(ctx, user)
	})
	if constraint, ok := store.DuplicateConstraint(err); ok {
		switch constraint {
		case internal.IndexUserEmail:
			return nil, apperror.ErrEmailTaken
		case internal.IndexUserUsername:
			return nil, apperror.ErrUsernameTaken
		}
	}
	if err != nil {
		log.Error("Failed to create user", "err", err)
		return nil, apperror.Internal(err)
	}

	log.Info("User registered", "user_id", user.ID)
	return &user, nil
}

// Authenticate returns the user behind email when password matches. Unknown
// email and wrong password fail the same way.
func (a *Authority) Authenticate(ctx context.Context, email, password string) (*internal.User, error) {
	user, err := a.repo.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		logger.FromContext(ctx).Error("Failed to load user", "err", err)
		return nil, apperror.Internal(err)
	}
	if !a.VerifyPassword(password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}
	return &user, nil
}

func (a *Authority) IssueToken(email string, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Authority) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := a.Authenticate(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	signed, err := a.IssueToken(user.Email, user.ID, a.cfg.TokenTTL)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to issue token", "user_id", user.ID, "err", err)
		return Token{}, apperror.Internal(err)
	}
	return Token{AccessToken: signed, TokenType: TokenType}, nil
}

// VerifyToken checks signature and expiry, then rejects tokens issued no
// later than the bearer's last password change.
func (a *Authority) VerifyToken(ctx context.Context, token string) (*TokenData, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(a.cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, apperror.ErrTokenExpired
	}
	if err != nil {
		return nil, apperror.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, apperror.ErrTokenInvalid
	}

	marker, err := a.cache.Get(ctx, cache.PasswordChangedKey(userID))
	switch {
	case errors.Is(err, cache.ErrMiss):
	case err != nil:
		logger.FromContext(ctx).Error("Failed to read password change marker", "user_id", userID, "err", err)
		return nil, apperror.Internal(err)
	default:
		changedAt, err := strconv.ParseInt(marker, 10, 64)
		if err != nil {
			logger.FromContext(ctx).Error("Corrupt password change marker", "user_id", userID, "value", marker)
			return nil, apperror.Internal(fmt.Errorf("parse marker %q: %w", marker, err))
		}
		if changedAt >= claims.IssuedAt.Unix() {
			return nil, apperror.ErrTokenRevoked
		}
	}

	return &TokenData{Email: claims.Subject, UserID: userID, IssuedAt: claims.IssuedAt.Time}, nil
}

// RecordPasswordChange revokes every token of userID issued at or before at.
// Markers are compared at second precision, like iat.
func (a *Authority) RecordPasswordChange(ctx context.Context, userID uuid.UUID, at time.Time) error {
	if err := a.cache.Set(ctx, cache.PasswordChangedKey(userID), at.Unix(), 0); err != nil {
		return fmt.Errorf("record password change: %w", err)
	}
	return nil
}
