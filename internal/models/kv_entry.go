package models

import "time"

type KVEntry struct {
	Key   string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text;not null"`

	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
