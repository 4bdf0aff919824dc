package dto

import (
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	Plan  string `json:"plan"`

	Favorites []uint `json:"favorites"`

	GeniusCoupon *string `json:"genius_coupon,omitempty"`
	GeniusStatus *string `json:"genius_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func User(u *models.User) UserDTO {
	favs := []uint(u.Favorites)
	if favs == nil {
		favs = []uint{}
	}
	return UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		Plan:         u.Plan,
		Favorites:    favs,
		GeniusCoupon: u.GeniusCoupon,
		GeniusStatus: u.GeniusStatus,
		CreatedAt:    u.CreatedAt,
	}
}
