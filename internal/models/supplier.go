package models

import "time"

type Supplier struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:150;not null" json:"name"`
	Phone string `gorm:"size:30" json:"phone"`
	City  string `gorm:"size:100;index" json:"city"`
	Image string `gorm:"size:500" json:"image"`

	Categories []Category `gorm:"many2many:supplier_categories;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"categories"`

	IsFreeSupplier  bool `gorm:"default:false" json:"is_free_supplier"`
	IsGeniusStudent bool `gorm:"default:false" json:"is_genius_student"`

	Ratings       []Rating `json:"ratings,omitempty"`
	AverageRating float64  `gorm:"default:0" json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Supplier) CategoryIDs() []uint {
	ids := make([]uint, 0, len(s.Categories))
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
