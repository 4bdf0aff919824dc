package dto

import "github.com/BruksfildServices01/supplier-directory/internal/models"

// SupplierCardDTO é o fornecedor na listagem, sem as avaliações.
type SupplierCardDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city"`
	Image string `json:"image"`

	CategoryIDs []uint `json:"category_ids"`

	IsFreeSupplier  bool    `json:"is_free_supplier"`
	IsGeniusStudent bool    `json:"is_genius_student"`
	AverageRating   float64 `json:"average_rating"`
	RatingsCount    int     `json:"ratings_count,omitempty"`
	Favorite        bool    `json:"favorite"`
}

func SupplierCard(s models.Supplier, favorite bool) SupplierCardDTO {
	return SupplierCardDTO{
		ID:              s.ID,
		Name:            s.Name,
		Phone:           s.Phone,
		City:            s.City,
		Image:           s.Image,
		CategoryIDs:     s.CategoryIDs(),
		IsFreeSupplier:  s.IsFreeSupplier,
		IsGeniusStudent: s.IsGeniusStudent,
		AverageRating:   s.AverageRating,
		RatingsCount:    len(s.Ratings),
		Favorite:        favorite,
	}
}

// SupplierCards monta os cards marcando os favoritos do usuário.
func SupplierCards(list []models.Supplier, favorites []uint) []SupplierCardDTO {
	fav := make(map[uint]struct{}, len(favorites))
	for _, id := range favorites {
		fav[id] = struct{}{}
	}

	out := make([]SupplierCardDTO, 0, len(list))
	for _, s := range list {
		_, ok := fav[s.ID]
		out = append(out, SupplierCard(s, ok))
	}
	return out
}
