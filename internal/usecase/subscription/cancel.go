package subscription

import (
	"context"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type Cancel struct {
	repo       account.Repository
	invalidate Invalidator
	audit      audit.Recorder
}

func NewCancel(repo account.Repository, invalidate Invalidator, audit audit.Recorder) *Cancel {
	return &Cancel{repo: repo, invalidate: invalidate, audit: audit}
}

// Execute encerra a assinatura. O registro fica, só muda de status, e o
// usuário volta ao plano gratuito.
func (uc *Cancel) Execute(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := uc.repo.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, httperr.ErrBusiness("subscription_not_found")
	}

	previous := sub.PlanType
	if err := domain.Cancel(sub); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveSubscriptionAndPlan(ctx, sub, string(plan.Free)); err != nil {
		return nil, err
	}

	uc.invalidate.InvalidateSubscription(ctx, userID)
	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "subscription_canceled",
		Entity:   "subscription",
		EntityID: &sub.ID,
		Metadata: map[string]any{"plan": previous},
	})

	return sub, nil
}
