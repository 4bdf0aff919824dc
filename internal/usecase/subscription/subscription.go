package subscription

import (
	"context"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

// Invalidator limpa a assinatura em cache depois de qualquer escrita.
type Invalidator interface {
	InvalidateSubscription(ctx context.Context, userID uint)
}

// ======================================================
// GET
// ======================================================

type View struct {
	Subscription *models.Subscription `json:"subscription"`
	Plan         plan.Plan            `json:"plan"`
	Current      bool                 `json:"current"`
}

type Get struct {
	repo account.Repository
	now  func() time.Time
}

func NewGet(repo account.Repository) *Get {
	return &Get{repo: repo, now: time.Now}
}

// Execute devolve a assinatura e o plano efetivo. Sem assinatura vigente o
// plano efetivo é o gratuito.
func (uc *Get) Execute(ctx context.Context, userID uint) (*View, error) {
	sub, err := uc.repo.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := &View{Subscription: sub}
	v.Current = domain.IsCurrent(sub, uc.now())

	effective := plan.Free
	if v.Current {
		effective = plan.Parse(sub.PlanType)
	}
	v.Plan, _ = plan.Get(effective)

	return v, nil
}

// ======================================================
// SELECT CATEGORIES
// ======================================================

type SelectCategories struct {
	repo       account.Repository
	invalidate Invalidator
	now        func() time.Time
}

func NewSelectCategories(repo account.Repository, invalidate Invalidator) *SelectCategories {
	return &SelectCategories{repo: repo, invalidate: invalidate, now: time.Now}
}

// Execute grava a seleção exatamente como veio, desde que caiba na cota do
// plano vigente.
func (uc *SelectCategories) Execute(
	ctx context.Context,
	userID uint,
	categoryIDs []uint,
) (*models.Subscription, error) {

	if categoryIDs == nil {
		categoryIDs = []uint{}
	}

	// a cota é conferida contra a linha travada; um pagamento confirmado
	// no meio do caminho não é sobrescrito
	sub, err := uc.repo.UpdateSelectedCategories(ctx, userID, categoryIDs,
		func(current *models.Subscription) error {
			active := plan.Free
			if domain.IsCurrent(current, uc.now()) {
				active = plan.Parse(current.PlanType)
			}
			return domain.CheckQuota(active, categoryIDs)
		},
	)
	if err != nil {
		return nil, err
	}

	uc.invalidate.InvalidateSubscription(ctx, userID)
	return sub, nil
}
