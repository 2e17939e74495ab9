package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pawsuite/petflow/internal/config"
	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/internal/domain/appointment"
	"github.com/pawsuite/petflow/internal/domain/catalog"
	"github.com/pawsuite/petflow/internal/domain/pet"
	"github.com/pawsuite/petflow/internal/domain/roster"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: false,
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&pet.Pet{},
		&catalog.Service{},
		&roster.WorkingHours{},
		&roster.Override{},
		&appointment.Appointment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	// Partial indexes keep the provider-day conflict scan and the reminder
	// feed cheap; both postgres and sqlite accept this syntax.
	indexes := []struct {
		name  string
		query string
	}{
		{
			name:  "idx_appointments_provider_day",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_provider_day ON appointments (provider_id, starts_at) WHERE status IN ('pending', 'confirmed')`,
		},
		{
			name:  "idx_appointments_upcoming",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_upcoming ON appointments (starts_at, status)`,
		},
		{
			name:  "idx_working_hours_provider",
			query: `CREATE INDEX IF NOT EXISTS idx_working_hours_provider ON working_hours (provider_id, weekday)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
