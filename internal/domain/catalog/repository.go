package catalog

import (
	"context"

	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type SupplierFilter struct {
	CategoryID uint
	Query      string
	City       string
}

// RatingsMutation recebe as avaliações atuais do fornecedor e devolve a
// lista nova. Roda dentro da transação que trava o fornecedor.
type RatingsMutation func(current []models.Rating) ([]models.Rating, error)

type Repository interface {
	// -------- Category --------
	ListCategories(ctx context.Context) ([]models.Category, error)

	GetCategory(
		ctx context.Context,
		id uint,
	) (*models.Category, error)

	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	CountSuppliersInCategory(
		ctx context.Context,
		categoryID uint,
	) (int64, error)

	FindCategories(
		ctx context.Context,
		ids []uint,
	) ([]models.Category, error)

	// -------- Supplier --------
	ListSuppliers(
		ctx context.Context,
		filter SupplierFilter,
	) ([]models.Supplier, error)

	GetSupplier(
		ctx context.Context,
		id uint,
	) (*models.Supplier, error)

	CreateSupplier(ctx context.Context, s *models.Supplier) error
	UpdateSupplier(ctx context.Context, s *models.Supplier) error
	DeleteSupplier(ctx context.Context, id uint) error

	// -------- Rating --------
	ListRatings(
		ctx context.Context,
		supplierID uint,
	) ([]models.Rating, error)

	UpdateRatings(
		ctx context.Context,
		supplierID uint,
		mutate RatingsMutation,
	) (*models.Supplier, error)

	// -------- Highlight --------
	ListHighlights(ctx context.Context) ([]models.Highlight, error)
}
