package models

import "time"

// StoreRecord is one persisted collection blob. The store writes the whole
// collection per key on every mutation; last writer wins.
type StoreRecord struct {
	Key       string    `gorm:"type:text;primary_key" json:"key"`
	Payload   string    `gorm:"type:jsonb;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (StoreRecord) TableName() string {
	return "store_records"
}
