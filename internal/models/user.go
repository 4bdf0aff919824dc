package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	// master | admin | user | aluno
	Role string `gorm:"size:20;default:'user';index" json:"role"`
	// free | monthly | semi_annual | annual
	Plan string `gorm:"size:20;default:'free'" json:"plan"`

	Favorites datatypes.JSONSlice[uint] `gorm:"type:jsonb" json:"favorites"`

	GeniusCoupon *string `gorm:"size:50" json:"genius_coupon,omitempty"`
	// pending | approved | blocked
	GeniusStatus *string `gorm:"size:20" json:"genius_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) HasFavorite(supplierID uint) bool {
	for _, id := range u.Favorites {
		if id == supplierID {
			return true
		}
	}
	return false
}
