package models

import "time"

// Report is owned by the reports service; only the columns this service reads
// or maintains are mapped here.
type Report struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Type          string    `gorm:"not null" json:"type"`
	Category      string    `gorm:"not null" json:"category"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Status        string    `gorm:"not null;default:'pending'" json:"status"`
	CommentsCount int64     `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}
