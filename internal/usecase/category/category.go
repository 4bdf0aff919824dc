package category

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type Input struct {
	ActorID uint
	Name    string
	Image   string
}

// Invalidator limpa o cache de categorias depois de uma mutação.
type Invalidator interface {
	InvalidateCategories(ctx context.Context)
}

// ======================================================
// USE CASE
// ======================================================

type Manage struct {
	repo       domain.Repository
	invalidate Invalidator
	audit      audit.Recorder
}

func NewManage(
	repo domain.Repository,
	invalidate Invalidator,
	audit audit.Recorder,
) *Manage {
	return &Manage{
		repo:       repo,
		invalidate: invalidate,
		audit:      audit,
	}
}

func (uc *Manage) Create(ctx context.Context, in Input) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("invalid_name")
	}

	c := &models.Category{
		Name:  name,
		Image: strings.TrimSpace(in.Image),
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	uc.invalidate.InvalidateCategories(ctx)
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "category_created",
		Entity:   "category",
		EntityID: &c.ID,
		Metadata: map[string]any{"name": c.Name},
	})

	return c, nil
}

func (uc *Manage) Update(ctx context.Context, id uint, in Input) (*models.Category, error) {
	c, err := uc.repo.GetCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("category_not_found")
	}
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if in.Image != "" {
		c.Image = strings.TrimSpace(in.Image)
	}

	if err := uc.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	uc.invalidate.InvalidateCategories(ctx)
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "category_updated",
		Entity:   "category",
		EntityID: &c.ID,
	})

	return c, nil
}

// Delete recusa categorias ainda vinculadas a algum fornecedor.
func (uc *Manage) Delete(ctx context.Context, actorID, id uint) error {
	n, err := uc.repo.CountSuppliersInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.ErrBusiness("category_in_use")
	}

	if err := uc.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}

	uc.invalidate.InvalidateCategories(ctx)
	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "category_deleted",
		Entity:   "category",
		EntityID: &id,
	})

	return nil
}
