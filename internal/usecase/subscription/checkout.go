package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/payment"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type CheckoutResult struct {
	Activated    bool                 `json:"activated"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	CheckoutID   string               `json:"checkout_id,omitempty"`
	RedirectURL  string               `json:"redirect_url,omitempty"`
}

type Checkout struct {
	repo       account.Repository
	gateway    payment.Gateway
	invalidate Invalidator
	audit      audit.Recorder
	now        func() time.Time
}

func NewCheckout(
	repo account.Repository,
	gateway payment.Gateway,
	invalidate Invalidator,
	audit audit.Recorder,
) *Checkout {
	return &Checkout{
		repo:       repo,
		gateway:    gateway,
		invalidate: invalidate,
		audit:      audit,
		now:        time.Now,
	}
}

// Execute ativa o plano gratuito na hora; planos pagos geram uma preferência
// no processador e o plano só muda quando o pagamento for confirmado.
func (uc *Checkout) Execute(
	ctx context.Context,
	userID uint,
	planType string,
) (*CheckoutResult, error) {

	if !plan.IsValid(planType) {
		return nil, httperr.ErrBusiness("invalid_plan")
	}
	planID := plan.ID(planType)
	p, _ := plan.Get(planID)

	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Gratuito
	// --------------------------------------------------
	if !plan.IsPaid(planID) {
		sub, err := uc.repo.GetSubscription(ctx, userID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			sub = &models.Subscription{UserID: userID}
		}

		if err := domain.Activate(sub, planID, uc.now(), domain.PaymentRef{}); err != nil {
			return nil, err
		}
		if err := uc.repo.SaveSubscriptionAndPlan(ctx, sub, string(planID)); err != nil {
			return nil, err
		}

		uc.invalidate.InvalidateSubscription(ctx, userID)
		uc.audit.Dispatch(audit.Event{
			UserID:   &userID,
			Action:   "subscription_activated",
			Entity:   "subscription",
			EntityID: &sub.ID,
			Metadata: map[string]any{"plan": planID},
		})

		return &CheckoutResult{Activated: true, Subscription: sub}, nil
	}

	// --------------------------------------------------
	// Pago
	// --------------------------------------------------
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("checkout_unavailable")
	}

	co, err := uc.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		Reference:   Reference(userID, planID),
		PlanID:      string(planID),
		Title:       "Plano " + p.Name,
		Description: fmt.Sprintf("Assinatura %s do diretório de fornecedores", p.Name),
		Amount:      p.Price,
		PayerEmail:  user.Email,
		PayerName:   user.Name,
	})
	if errors.Is(err, payment.ErrNotConfigured) {
		return nil, httperr.ErrBusiness("checkout_unavailable")
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "checkout_started",
		Entity:   "subscription",
		Metadata: map[string]any{"plan": planID, "checkout_id": co.ID},
	})

	return &CheckoutResult{
		CheckoutID:  co.ID,
		RedirectURL: co.RedirectURL,
	}, nil
}
