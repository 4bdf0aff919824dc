package dto

import (
	"testing"

	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

func TestSupplierCardsMarksFavorites(t *testing.T) {
	list := []models.Supplier{
		{ID: 1, Name: "A", Categories: []models.Category{{ID: 3}}},
		{ID: 2, Name: "B"},
	}

	cards := SupplierCards(list, []uint{2})
	if len(cards) != 2 {
		t.Fatalf("got %d cards", len(cards))
	}
	if cards[0].Favorite || !cards[1].Favorite {
		t.Fatalf("favorite flags wrong: %+v", cards)
	}
	if len(cards[0].CategoryIDs) != 1 || cards[0].CategoryIDs[0] != 3 {
		t.Fatalf("category ids = %v", cards[0].CategoryIDs)
	}
}

func TestUserNeverNilFavorites(t *testing.T) {
	if User(&models.User{ID: 1}).Favorites == nil {
		t.Fatal("favorites must serialize as []")
	}
}
