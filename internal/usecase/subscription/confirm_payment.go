package subscription

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/payment"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type ConfirmResult struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	// Applied é false quando o pagamento não foi aprovado ou já tinha sido
	// processado antes.
	Applied      bool                 `json:"applied"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

type ConfirmPayment struct {
	repo       account.Repository
	gateway    payment.Gateway
	invalidate Invalidator
	audit      audit.Recorder
	now        func() time.Time

	// o processador reenvia a mesma notificação; serializa por processo
	mu sync.Mutex
}

func NewConfirmPayment(
	repo account.Repository,
	gateway payment.Gateway,
	invalidate Invalidator,
	audit audit.Recorder,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:       repo,
		gateway:    gateway,
		invalidate: invalidate,
		audit:      audit,
		now:        time.Now,
	}
}

// Execute consulta o pagamento no processador e, se aprovado, ativa o plano
// do usuário. Chamadas repetidas com o mesmo id não estendem o período.
func (uc *ConfirmPayment) Execute(ctx context.Context, paymentID string) (*ConfirmResult, error) {
	if paymentID == "" {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("checkout_unavailable")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	done, err := uc.repo.FindSubscriptionByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return &ConfirmResult{
			PaymentID:    paymentID,
			Status:       payment.StatusApproved,
			Subscription: done,
		}, nil
	}

	pay, err := uc.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	res := &ConfirmResult{PaymentID: pay.ID, Status: pay.Status}
	if pay.Status != payment.StatusApproved {
		logger.Log.Info("payment not approved yet",
			zap.String("payment_id", pay.ID),
			zap.String("status", pay.Status),
		)
		return res, nil
	}

	userID, planID, ok := ParseReference(pay.Reference)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_reference")
	}

	if _, err := uc.repo.GetUser(ctx, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("user_not_found")
	} else if err != nil {
		return nil, err
	}

	sub, err := uc.repo.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &models.Subscription{UserID: userID}
	}

	ref := domain.PaymentRef{
		SubscriptionID: pay.Reference,
		PaymentID:      pay.ID,
	}
	if err := domain.Activate(sub, planID, uc.now(), ref); err != nil {
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
		Metadata: map[string]any{
			"plan":       planID,
			"payment_id": pay.ID,
			"amount":     pay.Amount,
		},
	})

	res.Applied = true
	res.Subscription = sub
	return res, nil
}
