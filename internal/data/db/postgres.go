package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/botbridge-backend/internal/platform/envutil"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService opens the sentence store's Postgres handle. Connection
// and pool settings come from POSTGRES_* env vars.
func NewPostgresService(logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.Str("POSTGRES_USER", "postgres"),
		envutil.Str("POSTGRES_PASSWORD", ""),
		envutil.Str("POSTGRES_HOST", "localhost"),
		envutil.Str("POSTGRES_PORT", "5432"),
		envutil.Str("POSTGRES_NAME", "botbridge"),
		envutil.Str("POSTGRES_SSLMODE", "disable"),
	)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.Int("POSTGRES_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute))

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }
