package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/rating"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Category
// --------------------------------------------------

func (r *CatalogGormRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *CatalogGormRepository) GetCategory(
	ctx context.Context,
	id uint,
) (*models.Category, error) {

	var cat models.Category
	if err := r.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CatalogGormRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogGormRepository) UpdateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CatalogGormRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		if httperr.IsForeignKeyViolation(res.Error) {
			return httperr.ErrBusiness("category_in_use")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("category_not_found")
	}
	return nil
}

func (r *CatalogGormRepository) CountSuppliersInCategory(
	ctx context.Context,
	categoryID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Table("supplier_categories").
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CatalogGormRepository) FindCategories(
	ctx context.Context,
	ids []uint,
) ([]models.Category, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	var cats []models.Category
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// --------------------------------------------------
// Supplier
// --------------------------------------------------

func (r *CatalogGormRepository) ListSuppliers(
	ctx context.Context,
	filter domain.SupplierFilter,
) ([]models.Supplier, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Preload("Categories")

	if filter.CategoryID != 0 {
		q = q.Where(
			"id IN (SELECT supplier_id FROM supplier_categories WHERE category_id = ?)",
			filter.CategoryID,
		)
	}

	if query := strings.ToLower(strings.TrimSpace(filter.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}

	if city := strings.ToLower(strings.TrimSpace(filter.City)); city != "" {
		q = q.Where("LOWER(city) = ?", city)
	}

	var suppliers []models.Supplier
	if err := q.
		Order("average_rating DESC, name ASC").
		Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *CatalogGormRepository) GetSupplier(
	ctx context.Context,
	id uint,
) (*models.Supplier, error) {

	var s models.Supplier
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Order("updated_at DESC")
		}).
		First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogGormRepository) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	return r.db.WithContext(ctx).
		Omit("Categories.*").
		Create(s).Error
}

func (r *CatalogGormRepository) UpdateSupplier(ctx context.Context, s *models.Supplier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Supplier{ID: s.ID}).
			Select("name", "phone", "city", "image", "is_free_supplier", "is_genius_student").
			Updates(s).Error; err != nil {
			return err
		}
		return tx.Model(s).
			Omit("Categories.*").
			Association("Categories").
			Replace(s.Categories)
	})
}

func (r *CatalogGormRepository) DeleteSupplier(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := models.Supplier{ID: id}

		if err := tx.Model(&s).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Where("supplier_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Supplier{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness("supplier_not_found")
		}
		return nil
	})
}

// --------------------------------------------------
// Rating
// --------------------------------------------------

func (r *CatalogGormRepository) ListRatings(
	ctx context.Context,
	supplierID uint,
) ([]models.Rating, error) {

	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("id ASC").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

// UpdateRatings trava o fornecedor, aplica a mutação e grava as avaliações
// alteradas junto com a média recalculada.
func (r *CatalogGormRepository) UpdateRatings(
	ctx context.Context,
	supplierID uint,
	mutate domain.RatingsMutation,
) (*models.Supplier, error) {

	var supplier models.Supplier

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&supplier, supplierID).Error; err != nil {
			return err
		}

		var current []models.Rating
		if err := tx.
			Where("supplier_id = ?", supplierID).
			Order("id ASC").
			Find(&current).Error; err != nil {
			return err
		}

		next, err := mutate(current)
		if err != nil {
			return err
		}

		before := make(map[uint]models.Rating, len(current))
		for _, rt := range current {
			before[rt.UserID] = rt
		}

		keep := make(map[uint]struct{}, len(next))
		for i := range next {
			rt := &next[i]
			keep[rt.UserID] = struct{}{}

			old, existed := before[rt.UserID]
			if existed && old.UpdatedAt.Equal(rt.UpdatedAt) {
				continue
			}

			rt.SupplierID = supplierID
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "supplier_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"user_name", "score", "comment", "complaint_tags", "updated_at",
				}),
			}).Create(rt).Error; err != nil {
				return err
			}
		}

		for userID := range before {
			if _, ok := keep[userID]; ok {
				continue
			}
			if err := tx.
				Where("supplier_id = ? AND user_id = ?", supplierID, userID).
				Delete(&models.Rating{}).Error; err != nil {
				return err
			}
		}

		supplier.AverageRating = rating.Average(next)
		supplier.Ratings = next

		return tx.Model(&models.Supplier{}).
			Where("id = ?", supplierID).
			Update("average_rating", supplier.AverageRating).Error
	})
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&supplier).
		Association("Categories").
		Find(&supplier.Categories); err != nil {
		return nil, err
	}

	return &supplier, nil
}

// --------------------------------------------------
// Highlight
// --------------------------------------------------

func (r *CatalogGormRepository) ListHighlights(ctx context.Context) ([]models.Highlight, error) {
	var hs []models.Highlight
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&hs).Error; err != nil {
		return nil, err
	}
	return hs, nil
}

// Compile-time check
var _ domain.Repository = (*CatalogGormRepository)(nil)
