package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the pure-Go "sqlite" driver used by gormsqlite below
	_ "modernc.org/sqlite"
)

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Info("using SQLite for local development", zap.String("dsn", dsn))

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer; one connection also keeps ":memory:" shared.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate runs each step in order, stopping at the first failure.
func Migrate(db *gorm.DB, steps ...func(*gorm.DB) error) error {
	for i, step := range steps {
		if err := step(db); err != nil {
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	return nil
}

const (
	createBtreeGist = `CREATE EXTENSION IF NOT EXISTS btree_gist`

	// Confirmed and active bookings on one charger may not share any instant.
	addBookingOverlapConstraint = `DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				charger_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (status IN ('confirmed', 'active'));
	END IF;
END $$`
)

// EnsureBookingOverlapConstraint installs the Postgres exclusion constraint
// backing the application-level conflict check. It is a no-op on SQLite.
func EnsureBookingOverlapConstraint(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(createBtreeGist).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}
	if err := db.Exec(addBookingOverlapConstraint).Error; err != nil {
		return fmt.Errorf("add bookings_no_overlap: %w", err)
	}
	return nil
}
