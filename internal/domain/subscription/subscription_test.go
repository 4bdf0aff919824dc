package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

func ids(n int) []uint {
	out := make([]uint, n)
	for i := range out {
		out[i] = uint(i + 1)
	}
	return out
}

func TestCheckQuota(t *testing.T) {
	if err := CheckQuota(plan.Monthly, ids(10)); err != nil {
		t.Fatalf("10 categories on monthly should pass: %v", err)
	}

	err := CheckQuota(plan.Monthly, ids(11))
	var qe *QuotaExceededError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if qe.Quota != 10 || qe.Requested != 11 {
		t.Fatalf("unexpected error payload: %+v", qe)
	}

	if err := CheckQuota(plan.SemiAnnual, ids(20)); err != nil {
		t.Fatalf("20 categories on semi_annual should pass: %v", err)
	}
	if err := CheckQuota(plan.SemiAnnual, ids(21)); err == nil {
		t.Fatal("21 categories on semi_annual should fail")
	}
	if err := CheckQuota(plan.Annual, ids(500)); err != nil {
		t.Fatalf("annual is unbounded: %v", err)
	}
	if err := CheckQuota(plan.Free, ids(1)); err == nil {
		t.Fatal("free plan has quota 0")
	}
	if err := CheckQuota(plan.Free, nil); err != nil {
		t.Fatalf("empty selection is always fine: %v", err)
	}
}

func TestCheckQuotaCountsDuplicates(t *testing.T) {
	dup := []uint{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	if err := CheckQuota(plan.Monthly, dup); err == nil {
		t.Fatal("selection is checked verbatim, duplicates count")
	}
}

func TestActivateNewSubscription(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sub := &models.Subscription{UserID: 7}

	if err := Activate(sub, plan.SemiAnnual, now, PaymentRef{PaymentID: "123"}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if sub.Status != string(StatusActive) || sub.PlanType != string(plan.SemiAnnual) {
		t.Fatalf("unexpected state: %+v", sub)
	}
	want := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if sub.EndDate == nil || !sub.EndDate.Equal(want) {
		t.Fatalf("end = %v, want %v", sub.EndDate, want)
	}
	if sub.LastPaymentID != "123" {
		t.Fatal("payment id not recorded")
	}
}

func TestActivateRenewalExtendsPeriod(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	sub := &models.Subscription{
		PlanType:  string(plan.Monthly),
		Status:    string(StatusActive),
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   &end,
	}

	if err := Activate(sub, plan.Monthly, now, PaymentRef{}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	want := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	if !sub.EndDate.Equal(want) {
		t.Fatalf("renewal end = %v, want %v", sub.EndDate, want)
	}
}

func TestActivateDowngradeTruncatesSelection(t *testing.T) {
	now := time.Now()
	sub := &models.Subscription{
		PlanType:           string(plan.SemiAnnual),
		Status:             string(StatusActive),
		SelectedCategories: ids(15),
	}

	if err := Activate(sub, plan.Monthly, now, PaymentRef{}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(sub.SelectedCategories) != 10 {
		t.Fatalf("selection should be truncated to quota, got %d", len(sub.SelectedCategories))
	}
	if err := CheckQuota(plan.Monthly, sub.SelectedCategories); err != nil {
		t.Fatalf("invariant broken after activation: %v", err)
	}
}

func TestActivateFreeHasNoEnd(t *testing.T) {
	sub := &models.Subscription{}
	if err := Activate(sub, plan.Free, time.Now(), PaymentRef{}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if sub.EndDate != nil {
		t.Fatal("free plan must not have an end date")
	}
	if !IsCurrent(sub, time.Now().AddDate(10, 0, 0)) {
		t.Fatal("free subscription never expires")
	}
}

func TestActivateInvalidPlan(t *testing.T) {
	err := Activate(&models.Subscription{}, plan.ID("gold"), time.Now(), PaymentRef{})
	if !httperr.IsBusiness(err, "invalid_plan") {
		t.Fatalf("expected invalid_plan, got %v", err)
	}
}

func TestIsCurrentAndPastDue(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if IsCurrent(nil, now) {
		t.Fatal("nil subscription is not current")
	}

	expired := &models.Subscription{Status: string(StatusActive), EndDate: &past}
	if IsCurrent(expired, now) {
		t.Fatal("expired subscription is not current")
	}
	if !MarkPastDue(expired, now) || expired.Status != string(StatusPastDue) {
		t.Fatal("expired subscription should become past_due")
	}
	if MarkPastDue(expired, now) {
		t.Fatal("MarkPastDue must only touch active subscriptions")
	}

	valid := &models.Subscription{Status: string(StatusActive), EndDate: &future}
	if !IsCurrent(valid, now) || MarkPastDue(valid, now) {
		t.Fatal("valid subscription should stay active")
	}

	canceled := &models.Subscription{Status: string(StatusCanceled), EndDate: &future}
	if IsCurrent(canceled, now) {
		t.Fatal("canceled subscription is not current")
	}
}

func TestCancel(t *testing.T) {
	sub := &models.Subscription{Status: string(StatusActive)}
	if err := Cancel(sub); err != nil || sub.Status != string(StatusCanceled) {
		t.Fatalf("cancel failed: %v %+v", err, sub)
	}
	if err := Cancel(sub); !httperr.IsBusiness(err, "subscription_not_active") {
		t.Fatalf("second cancel should fail, got %v", err)
	}
}
