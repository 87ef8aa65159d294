// Package app assembles the services shared by the API and the sweep binary.
package app

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"chargeshare/internal/config"
	"chargeshare/internal/database"
	"chargeshare/internal/domain/booking"
	"chargeshare/internal/domain/charger"
	"chargeshare/internal/lock"
	"chargeshare/internal/notification"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Notifier notification.Notifier

	Chargers *charger.Service
	Bookings *booking.Service
}

// New connects storage, runs migrations and builds the domain services.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db, charger.AutoMigrate, booking.AutoMigrate, database.EnsureBookingOverlapConstraint); err != nil {
		return nil, err
	}

	locker, err := newLocker(cfg, log)
	if err != nil {
		return nil, err
	}

	emptyPolicy, err := charger.ParseEmptyWindowsPolicy(cfg.EmptyAvailabilityPolicy)
	if err != nil {
		return nil, err
	}
	availability := charger.Availability{Location: cfg.Location(), EmptyPolicy: emptyPolicy}

	chargers := charger.NewService(charger.NewRepository(db), availability, log.Named("charger"))
	bookings := booking.NewService(
		booking.NewRepository(db, locker),
		chargers,
		booking.Policy{
			CancellationCutoff: cfg.CancellationCutoff,
			InstantConfirm:     cfg.InstantConfirm,
			Availability:       availability,
		},
		log.Named("booking"),
	)

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Notifier: notification.NewLogNotifier(log.Named("notification")),
		Chargers: chargers,
		Bookings: bookings,
	}, nil
}

func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newLocker shares charger locks through Redis when REDIS_URL is set, so
// API replicas serialize bookings on the same charger.
func newLocker(cfg *config.Config, log *zap.Logger) (lock.Locker, error) {
	if cfg.RedisURL == "" {
		log.Info("charger locks held in-process")
		return lock.NewMemoryLocker(), nil
	}
	client, err := lock.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Info("charger locks held in redis")
	return lock.NewRedisLocker(client, cfg.LockTTL), nil
}
