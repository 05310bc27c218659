package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/oficina-maquinas/internal/config"
	"github.com/BruksfildServices01/oficina-maquinas/internal/kvstore"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

// NewDB abre o banco relacional (sqlite local ou postgres) e migra as tabelas.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DBUrl)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("db: driver %q não é relacional", cfg.StorageDriver)
	}

	// registro inexistente é fluxo normal, não erro
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: true,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("db: failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: failed to get sql.DB: %w", err)
	}

	if cfg.StorageDriver == config.DriverSQLite {
		// um único escritor no arquivo local
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := db.AutoMigrate(
		&models.KVEntry{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("db: failed to migrate: %w", err)
	}

	return db, nil
}

func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("db: redis ping %s: %w", cfg.RedisAddr, err)
	}

	return client, nil
}

// OpenStore devolve o Store do driver configurado, já instrumentado.
// O *gorm.DB só vem preenchido nos drivers relacionais (usado pela auditoria).
func OpenStore(ctx context.Context, cfg *config.Config) (kvstore.Store, *gorm.DB, error) {
	if cfg.StorageDriver == config.DriverRedis {
		client, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := kvstore.NewRedisStore(client, cfg.RedisKeyPrefix)
		return kvstore.NewInstrumented(store, config.DriverRedis), nil, nil
	}

	gdb, err := NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := kvstore.NewGormStore(gdb)
	return kvstore.NewInstrumented(store, cfg.StorageDriver), gdb, nil
}
