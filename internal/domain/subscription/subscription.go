package subscription

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

// ===============================
// Status
// ===============================

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

// ===============================
// Quota
// ===============================

type QuotaExceededError struct {
	Plan      plan.ID
	Quota     int
	Requested int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("plan %s allows at most %d categories, got %d", e.Plan, e.Quota, e.Requested)
}

// CheckQuota rejeita a seleção quando passa do limite do plano.
// A lista não é deduplicada nem conferida contra categorias existentes.
func CheckQuota(planID plan.ID, candidate []uint) error {
	max, unlimited := plan.Quota(planID)
	if unlimited {
		return nil
	}
	if len(candidate) > max {
		return &QuotaExceededError{Plan: planID, Quota: max, Requested: len(candidate)}
	}
	return nil
}

// ===============================
// Rules
// ===============================

// IsCurrent diz se a assinatura ainda concede o plano.
func IsCurrent(sub *models.Subscription, now time.Time) bool {
	if sub == nil || Status(sub.Status) != StatusActive {
		return false
	}
	return sub.EndDate == nil || now.Before(*sub.EndDate)
}

type PaymentRef struct {
	CustomerID     string
	SubscriptionID string
	PaymentID      string
}

// Activate registra (ou renova) o plano a partir de now.
func Activate(sub *models.Subscription, planID plan.ID, now time.Time, ref PaymentRef) error {
	p, ok := plan.Get(planID)
	if !ok {
		return httperr.ErrBusiness("invalid_plan")
	}

	start := now
	// renovação do mesmo plano ainda vigente soma ao período atual
	if IsCurrent(sub, now) && plan.ID(sub.PlanType) == planID && sub.EndDate != nil {
		start = *sub.EndDate
	}

	if plan.ID(sub.PlanType) != planID {
		sub.SelectedCategories = truncate(sub.SelectedCategories, p)
		sub.StartDate = now
	} else if sub.StartDate.IsZero() {
		sub.StartDate = now
	}

	sub.PlanType = string(planID)
	sub.Status = string(StatusActive)
	sub.EndDate = p.EndDate(start)

	if ref.CustomerID != "" {
		sub.ExternalCustomerID = ref.CustomerID
	}
	if ref.SubscriptionID != "" {
		sub.ExternalSubscriptionID = ref.SubscriptionID
	}
	if ref.PaymentID != "" {
		sub.LastPaymentID = ref.PaymentID
	}

	return nil
}

func Cancel(sub *models.Subscription) error {
	if Status(sub.Status) != StatusActive {
		return httperr.ErrBusiness("subscription_not_active")
	}
	sub.Status = string(StatusCanceled)
	return nil
}

// MarkPastDue é aplicado pelo sweeper a planos pagos vencidos.
func MarkPastDue(sub *models.Subscription, now time.Time) bool {
	if Status(sub.Status) != StatusActive || sub.EndDate == nil {
		return false
	}
	if now.Before(*sub.EndDate) {
		return false
	}
	sub.Status = string(StatusPastDue)
	return true
}

func truncate(ids []uint, p plan.Plan) []uint {
	if p.Unlimited || len(ids) <= p.MaxCategories {
		return ids
	}
	return append([]uint(nil), ids[:p.MaxCategories]...)
}
