package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the sqlite3 driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/diewo77/confeitaria/internal/config"
)

// record is one persisted document. This is the on-device shape the mobile
// storage layer uses too: a single key/value table in a local sqlite file.
type record struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "records" }

// SQLite implements RecordStore on a local sqlite database.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the records
// table exists. If MIGRATIONS=1 (or true) the SQL migrations in ./migrations
// run via golang-migrate; otherwise AutoMigrate keeps the dev loop simple.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "./confeitaria.db"
	}
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(path); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("automigrate records: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context, namespace string) ([]byte, error) {
	var rec record
	err := s.db.WithContext(ctx).First(&rec, "namespace = ?", namespace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", namespace, err)
	}
	return rec.Data, nil
}

func (s *SQLite) Save(ctx context.Context, namespace string, data []byte) error {
	rec := record{Namespace: namespace, Data: data, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return retryableErr(namespace, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(path string) error {
	m, err := migrate.New("file://migrations", "sqlite3://"+path)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
