package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MagnunAVF/clicklink/internal"
)

type Gorm struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Open picks the driver from the DSN: postgres URLs and key/value DSNs go to
// Postgres, anything else is treated as a SQLite file or memory DSN.
func Open(dsn string, log gormlogger.Interface) (*Gorm, error) {
	cfg := &gorm.Config{Logger: log}
	if log == nil {
		cfg.Logger = gormlogger.Discard
	}

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		// Every SQLite connection gets its own in-memory database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db), nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func (s *Gorm) Migrate() error {
	return s.db.AutoMigrate(&internal.User{}, &internal.URL{})
}

func (s *Gorm) DB() *gorm.DB {
	return s.db
}

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Gorm) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func (s *Gorm) CreateURL(ctx context.Context, u internal.URL) (int64, error) {
	u.ID = 0
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return 0, classify(err)
	}
	return u.ID, nil
}

func (s *Gorm) SetShortCode(ctx context.Context, id int64, code string) error {
	res := s.db.WithContext(ctx).Model(&internal.URL{}).Where("id = ?", id).Update("short_code", code)
	return affected(res)
}

func (s *Gorm) URLByID(ctx context.Context, id int64) (internal.URL, error) {
	var u internal.URL
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	return u, classify(err)
}

func (s *Gorm) URLByShortCode(ctx context.Context, code string) (internal.URL, error) {
	var u internal.URL
	err := s.db.WithContext(ctx).Where("short_code = ?", code).Take(&u).Error
	return u, classify(err)
}

func (s *Gorm) URLsByOwner(ctx context.Context, owner uuid.UUID) ([]internal.URL, error) {
	var urls []internal.URL
	err := s.db.WithContext(ctx).Where("user_id = ?", owner).Order("id").Find(&urls).Error
	if err != nil {
		return nil, classify(err)
	}
	return urls, nil
}

func (s *Gorm) SetClicks(ctx context.Context, code string, clicks int64) error {
	res := s.db.WithContext(ctx).Model(&internal.URL{}).Where("short_code = ?", code).Update("clicks", clicks)
	return affected(res)
}

func (s *Gorm) CreateUser(ctx context.Context, u internal.User) error {
	return classify(s.db.WithContext(ctx).Create(&u).Error)
}

func (s *Gorm) UserByID(ctx context.Context, id uuid.UUID) (internal.User, error) {
	var u internal.User
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	return u, classify(err)
}

func (s *Gorm) UserByEmail(ctx context.Context, email string) (internal.User, error) {
	var u internal.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error
	return u, classify(err)
}

func (s *Gorm) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := s.db.WithContext(ctx).Model(&internal.User{}).Where("id = ?", id).Update("password", hash)
	return affected(res)
}

func (s *Gorm) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	res := s.db.WithContext(ctx).Model(&internal.User{}).Where("id = ?", id).Update("username", username)
	return affected(res)
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if constraint, ok := uniqueViolation(err); ok {
		return &DuplicateError{Constraint: constraint, Err: err}
	}
	return err
}
