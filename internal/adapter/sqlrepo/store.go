// Package sqlrepo implements the repositories on an embedded SQLite
// database through gorm. It backs local runs and demos where no Postgres is
// available.
package sqlrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"flabi/internal/domain"
)

// Store owns the gorm handle shared by all repositories.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (and migrates) the database at path. An empty path opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	var dsn string
	if strings.TrimSpace(path) == "" {
		dsn = fmt.Sprintf("file:flabi-%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: handle: %w", err)
	}
	// one writer; also keeps the in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, model := range migrateModels {
		if err := s.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("sqlite: migrate %T: %w", model, err)
		}
	}
	seed := statusModel{
		ID:        domain.StatusID,
		Lat:       domain.DefaultLatitude,
		Lng:       domain.DefaultLongitude,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return fmt.Errorf("sqlite: seed status: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Repositories exposes the store through the domain interfaces.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Posts:     &postRepo{s},
		Pledges:   &pledgeRepo{s},
		Donations: &donationRepo{s},
		Status:    &statusRepo{s},
		Admins:    &adminRepo{s},
	}
}

const newestFirst = "created_at desc, rowid desc"

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
