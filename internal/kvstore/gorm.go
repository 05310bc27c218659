package kvstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

// GormStore guarda cada chave como uma linha de kv_entries.
// Serve tanto para o sqlite local quanto para postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get usa Find em vez de Take: chave ausente é o estado normal da
// primeira execução e não deve passar pelo logger como erro.
func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	res := s.db.WithContext(ctx).
		Where("key = ?", key).
		Limit(1).
		Find(&entry)
	if res.Error != nil {
		return "", mapGormErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrKeyNotFound
	}
	return entry.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	return mapGormErr(upsert(s.db.WithContext(ctx), key, value))
}

func (s *GormStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// ordem fixa de escrita entre transações concorrentes
	slices.Sort(keys)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := upsert(tx, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	})
	return mapGormErr(err)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key, value string) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func mapGormErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrKeyNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// SQLSTATE classe 08 = connection exception
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return err
}

var _ Store = (*GormStore)(nil)
