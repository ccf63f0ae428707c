package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"refcheck/internal/models"
)

// Provider is the key-value persistence boundary: whole-collection JSON blobs
// keyed by string, overwritten on every write.
type Provider interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, payload []byte) error
}

type gormProvider struct {
	db *gorm.DB
}

func NewGormProvider(db *gorm.DB) Provider {
	return &gormProvider{db: db}
}

// Read implements Provider.
func (p *gormProvider) Read(key string) ([]byte, bool, error) {
	var record models.StoreRecord
	if err := p.db.Where("key = ?", key).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read record %q: %w", key, err)
	}

	return []byte(record.Payload), true, nil
}

// Write implements Provider.
func (p *gormProvider) Write(key string, payload []byte) error {
	record := models.StoreRecord{
		Key:     key,
		Payload: string(payload),
	}

	err := p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}

	return nil
}
