// internal/infrastructure/storage/postgres.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRecord is the row shape for database-backed session state.
type CollectionRecord struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the table name
func (CollectionRecord) TableName() string {
	return "collection_records"
}

// PostgresAdapter persists values as rows in Postgres via GORM. Used when
// session state must survive the cache tier.
type PostgresAdapter struct {
	db *gorm.DB
}

// NewPostgresAdapter wraps an existing GORM handle and ensures the
// backing table exists.
func NewPostgresAdapter(db *gorm.DB) (*PostgresAdapter, error) {
	if err := db.AutoMigrate(&CollectionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate collection_records: %w", err)
	}
	return &PostgresAdapter{db: db}, nil
}

// Load retrieves the value stored under key
func (p *PostgresAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	var record CollectionRecord
	err := p.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", key, err)
	}
	return record.Data, nil
}

// Save upserts the value under key
func (p *PostgresAdapter) Save(ctx context.Context, key string, data []byte) error {
	record := CollectionRecord{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (p *PostgresAdapter) Delete(ctx context.Context, key string) error {
	err := p.db.WithContext(ctx).Where("key = ?", key).Delete(&CollectionRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}
