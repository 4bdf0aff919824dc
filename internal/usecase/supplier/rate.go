package supplier

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/rating"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

// Guard confere se o usuário pode ver o fornecedor antes de avaliá-lo.
type Guard interface {
	GetSupplier(ctx context.Context, userID, supplierID uint) (*models.Supplier, error)
}

type RateInput struct {
	UserID        uint
	SupplierID    uint
	Score         int
	Comment       string
	ComplaintTags []string
}

type Rate struct {
	repo     domain.Repository
	accounts account.Repository
	guard    Guard
	audit    audit.Recorder
	now      func() time.Time
}

func NewRate(
	repo domain.Repository,
	accounts account.Repository,
	guard Guard,
	audit audit.Recorder,
) *Rate {
	return &Rate{
		repo:     repo,
		accounts: accounts,
		guard:    guard,
		audit:    audit,
		now:      time.Now,
	}
}

// Execute grava (ou substitui) a avaliação do usuário e recalcula a média
// na mesma transação. Escrita: nunca passa pelo retry.
func (uc *Rate) Execute(ctx context.Context, in RateInput) (*models.Supplier, error) {
	sub := rating.Submission{
		SupplierID:    in.SupplierID,
		UserID:        in.UserID,
		Score:         in.Score,
		Comment:       strings.TrimSpace(in.Comment),
		ComplaintTags: in.ComplaintTags,
	}
	if err := rating.Validate(sub); err != nil {
		return nil, err
	}

	if _, err := uc.guard.GetSupplier(ctx, in.UserID, in.SupplierID); err != nil {
		return nil, err
	}

	user, err := uc.accounts.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	sub.UserName = user.Name

	var replaced bool
	s, err := uc.repo.UpdateRatings(ctx, in.SupplierID, func(current []models.Rating) ([]models.Rating, error) {
		var out []models.Rating
		out, replaced = rating.Apply(current, sub, uc.now())
		return out, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("supplier_not_found")
	}
	if err != nil {
		return nil, err
	}

	action := "rating_created"
	if replaced {
		action = "rating_updated"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   action,
		Entity:   "supplier",
		EntityID: &in.SupplierID,
		Metadata: map[string]any{"rating": in.Score, "complaint_tags": in.ComplaintTags},
	})

	return s, nil
}

// Remove apaga a avaliação do próprio usuário.
func (uc *Rate) Remove(ctx context.Context, userID, supplierID uint) (*models.Supplier, error) {
	s, err := uc.repo.UpdateRatings(ctx, supplierID, func(current []models.Rating) ([]models.Rating, error) {
		out, removed := rating.Remove(current, userID)
		if !removed {
			return nil, httperr.ErrBusiness("rating_not_found")
		}
		return out, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("supplier_not_found")
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "rating_deleted",
		Entity:   "supplier",
		EntityID: &supplierID,
	})

	return s, nil
}
