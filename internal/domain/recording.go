package domain

import "time"

// Recording is an uploaded voice memo awaiting transcription
type Recording struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64    `gorm:"column:user_id;index" json:"user_id"`
	StorageKey   string    `gorm:"column:storage_key;type:varchar(255)" json:"-"`
	URL          string    `gorm:"column:url;type:varchar(500)" json:"url"`
	OriginalName string    `gorm:"column:original_name;type:varchar(255)" json:"original_name"`
	MimeType     string    `gorm:"column:mime_type;type:varchar(100)" json:"mime_type"`
	SizeBytes    int64     `gorm:"column:size_bytes" json:"size_bytes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Recording) TableName() string { return "recordings" }
