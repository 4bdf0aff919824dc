package models

import "time"

type Highlight struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:150;not null" json:"title"`
	Description string `gorm:"size:500" json:"description"`

	MediaURL  string `gorm:"size:500;not null" json:"media_url"`
	MediaType string `gorm:"size:10;default:'image'" json:"media_type"` // image | video
	LinkURL   string `gorm:"size:500" json:"link_url"`

	// segundos até a próxima transição do carrossel (1–20)
	DelaySeconds int `gorm:"default:5" json:"delay_seconds"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
