package supplier

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

	Name  string
	Phone string
	City  string
	Image string

	CategoryIDs []uint

	IsFreeSupplier  bool
	IsGeniusStudent bool
}

// ======================================================
// USE CASE
// ======================================================

type Manage struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewManage(repo domain.Repository, audit audit.Recorder) *Manage {
	return &Manage{repo: repo, audit: audit}
}

func (uc *Manage) Create(ctx context.Context, in Input) (*models.Supplier, error) {
	cats, err := uc.resolveCategories(ctx, in)
	if err != nil {
		return nil, err
	}

	s := &models.Supplier{
		Name:            strings.TrimSpace(in.Name),
		Phone:           strings.TrimSpace(in.Phone),
		City:            strings.TrimSpace(in.City),
		Image:           strings.TrimSpace(in.Image),
		Categories:      cats,
		IsFreeSupplier:  in.IsFreeSupplier,
		IsGeniusStudent: in.IsGeniusStudent,
	}

	if err := uc.repo.CreateSupplier(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "supplier_created",
		Entity:   "supplier",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"name":       s.Name,
			"categories": in.CategoryIDs,
			"free":       s.IsFreeSupplier,
			"genius":     s.IsGeniusStudent,
		},
	})

	return s, nil
}

// Update substitui todos os campos editáveis, inclusive as categorias.
func (uc *Manage) Update(ctx context.Context, id uint, in Input) (*models.Supplier, error) {
	s, err := uc.repo.GetSupplier(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("supplier_not_found")
	}
	if err != nil {
		return nil, err
	}

	cats, err := uc.resolveCategories(ctx, in)
	if err != nil {
		return nil, err
	}

	s.Name = strings.TrimSpace(in.Name)
	s.Phone = strings.TrimSpace(in.Phone)
	s.City = strings.TrimSpace(in.City)
	s.Image = strings.TrimSpace(in.Image)
	s.Categories = cats
	s.IsFreeSupplier = in.IsFreeSupplier
	s.IsGeniusStudent = in.IsGeniusStudent
	s.Ratings = nil

	if err := uc.repo.UpdateSupplier(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "supplier_updated",
		Entity:   "supplier",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"categories": in.CategoryIDs,
			"free":       s.IsFreeSupplier,
			"genius":     s.IsGeniusStudent,
		},
	})

	return s, nil
}

func (uc *Manage) Delete(ctx context.Context, actorID, id uint) error {
	if err := uc.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "supplier_deleted",
		Entity:   "supplier",
		EntityID: &id,
	})
	return nil
}

// resolveCategories valida o nome e carrega as categorias; id desconhecido
// é rejeitado.
func (uc *Manage) resolveCategories(ctx context.Context, in Input) ([]models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, httperr.ErrBusiness("invalid_name")
	}

	ids := dedupe(in.CategoryIDs)
	cats, err := uc.repo.FindCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, httperr.ErrBusiness("invalid_category")
	}
	return cats, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
