package rdb

import "time"

// PresetRecord is the RDB persistence model for domain Preset.
// Table name: presets
type PresetRecord struct {
	Name           string    `gorm:"primaryKey;type:text;not null"`
	CPU            float64   `gorm:"not null"`
	Memory         int64     `gorm:"not null"` // bytes
	Shm            bool      `gorm:"not null"`
	Accelerators   string    `gorm:"type:text"` // JSON encoded []acceleratorJSON
	ResourcePools  string    `gorm:"type:text"` // JSON encoded []string
	CreditsPerHour string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (PresetRecord) TableName() string { return "presets" }
