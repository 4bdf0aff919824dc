package models

import (
	"time"

	"gorm.io/datatypes"
)

// Uma avaliação por (supplier, user).
type Rating struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	SupplierID uint `gorm:"uniqueIndex:idx_rating_supplier_user;not null" json:"supplier_id"`
	UserID     uint `gorm:"uniqueIndex:idx_rating_supplier_user;not null" json:"user_id"`

	UserName      string                      `gorm:"size:100" json:"user_name"`
	Score         int                         `gorm:"not null" json:"rating"`
	Comment       string                      `gorm:"type:text" json:"comment"`
	ComplaintTags datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"complaint_tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
