package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ shared.LocalStore = (*GormLocalStore)(nil)

// GormLocalStore implements LocalStore on a SQL table of JSON values
type GormLocalStore struct {
	db *gorm.DB
}

// NewGormLocalStore creates a new GormLocalStore
func NewGormLocalStore(db *gorm.DB) *GormLocalStore {
	return &GormLocalStore{db: db}
}

// Get decodes the value stored under key into dst
func (s *GormLocalStore) Get(ctx context.Context, key string, dst any) error {
	var entry models.LocalEntryModel
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("no local value for %s", key))
	}
	if err != nil {
		return fmt.Errorf("failed to read local value %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dst); err != nil {
		return fmt.Errorf("failed to decode local value %s: %w", key, err)
	}
	return nil
}

// Put stores value under key, replacing any previous value
func (s *GormLocalStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode local value %s: %w", key, err)
	}
	entry := models.LocalEntryModel{Key: key, Value: string(data)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write local value %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *GormLocalStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.LocalEntryModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete local value %s: %w", key, err)
	}
	return nil
}
