package model

import "time"

// Entry is a single key/value row of the sqlite persistence backend.
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "kv_entries"
}
