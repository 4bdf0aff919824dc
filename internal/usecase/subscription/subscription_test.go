package subscription

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/payment"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
	"github.com/BruksfildServices01/supplier-directory/internal/testutil"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type fakeGateway struct {
	payments map[string]*payment.Payment
	requests []payment.CheckoutRequest
	gets     int
	err      error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, in payment.CheckoutRequest) (*payment.Checkout, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, in)
	return &payment.Checkout{ID: "pref-1", RedirectURL: "https://mp.example/checkout/pref-1"}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	g.gets++
	p, ok := g.payments[id]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

type invalidations struct{ users []uint }

func (i *invalidations) InvalidateSubscription(_ context.Context, userID uint) {
	i.users = append(i.users, userID)
}

func newAccounts() *testutil.AccountRepo {
	repo := testutil.NewAccountRepo()
	repo.AddUser(models.User{ID: 1, Name: "Bia", Email: "bia@example.com", Role: access.RoleUser, Plan: string(plan.Free)})
	return repo
}

func activeSub(userID uint, p plan.ID, cats ...uint) models.Subscription {
	end := now.AddDate(0, 1, 0)
	return models.Subscription{
		UserID:             userID,
		PlanType:           string(p),
		Status:             string(domain.StatusActive),
		StartDate:          now.AddDate(0, 0, -1),
		EndDate:            &end,
		SelectedCategories: cats,
	}
}

func seq(n int) []uint {
	out := make([]uint, n)
	for i := range out {
		out[i] = uint(i + 1)
	}
	return out
}

// ======================================================
// SELECT CATEGORIES
// ======================================================

func TestSelectCategoriesQuota(t *testing.T) {
	repo := newAccounts()
	repo.AddSubscription(activeSub(1, plan.Monthly))
	inv := &invalidations{}
	uc := NewSelectCategories(repo, inv)
	uc.now = clock

	_, err := uc.Execute(context.Background(), 1, seq(11))
	var qe *domain.QuotaExceededError
	if !errors.As(err, &qe) || qe.Quota != 10 || qe.Requested != 11 {
		t.Fatalf("expected quota error with quota 10, got %v", err)
	}

	sub, err := uc.Execute(context.Background(), 1, seq(10))
	if err != nil {
		t.Fatalf("10 categories should fit: %v", err)
	}
	if len(sub.SelectedCategories) != 10 {
		t.Fatalf("selection = %v", sub.SelectedCategories)
	}
	if len(inv.users) != 1 || inv.users[0] != 1 {
		t.Fatalf("cache not invalidated: %v", inv.users)
	}
}

func TestSelectCategoriesPersistsVerbatim(t *testing.T) {
	repo := newAccounts()
	repo.AddSubscription(activeSub(1, plan.SemiAnnual))
	uc := NewSelectCategories(repo, &invalidations{})
	uc.now = clock

	if _, err := uc.Execute(context.Background(), 1, []uint{5, 5, 999}); err != nil {
		t.Fatal(err)
	}
	got := repo.Subscriptions[1].SelectedCategories
	if len(got) != 3 || got[0] != 5 || got[1] != 5 || got[2] != 999 {
		t.Fatalf("selection changed: %v", got)
	}
}

func TestSelectCategoriesWithoutSubscription(t *testing.T) {
	uc := NewSelectCategories(newAccounts(), &invalidations{})
	if _, err := uc.Execute(context.Background(), 1, []uint{1}); !httperr.IsBusiness(err, "subscription_not_found") {
		t.Fatalf("expected subscription_not_found, got %v", err)
	}
}

func TestSelectCategoriesExpiredUsesFreeQuota(t *testing.T) {
	repo := newAccounts()
	sub := activeSub(1, plan.Monthly)
	past := now.AddDate(0, 0, -1)
	sub.EndDate = &past
	repo.AddSubscription(sub)

	uc := NewSelectCategories(repo, &invalidations{})
	uc.now = clock

	var qe *domain.QuotaExceededError
	if _, err := uc.Execute(context.Background(), 1, []uint{1}); !errors.As(err, &qe) || qe.Quota != 0 {
		t.Fatalf("expected free quota error, got %v", err)
	}
}

// paymentDuringSelection confirma um pagamento imediatamente antes da
// gravação da seleção, como um webhook que chega durante a requisição.
type paymentDuringSelection struct {
	*testutil.AccountRepo
	confirm func()
}

func (r *paymentDuringSelection) UpdateSelectedCategories(
	ctx context.Context,
	userID uint,
	ids []uint,
	check func(current *models.Subscription) error,
) (*models.Subscription, error) {
	if r.confirm != nil {
		confirm := r.confirm
		r.confirm = nil
		confirm()
	}
	return r.AccountRepo.UpdateSelectedCategories(ctx, userID, ids, check)
}

func TestSelectCategoriesKeepsConcurrentUpgrade(t *testing.T) {
	base := newAccounts()
	base.AddSubscription(activeSub(1, plan.Monthly, 1, 2))

	gw := &fakeGateway{payments: map[string]*payment.Payment{
		"777": {ID: "777", Status: payment.StatusApproved, Reference: "1:annual:abc", Amount: 299.90},
	}}
	confirm := NewConfirmPayment(base, gw, &invalidations{}, &testutil.Recorder{})
	confirm.now = clock

	repo := &paymentDuringSelection{AccountRepo: base}
	repo.confirm = func() {
		res, err := confirm.Execute(context.Background(), "777")
		if err != nil || !res.Applied {
			t.Fatalf("confirmation failed: %+v %v", res, err)
		}
	}

	uc := NewSelectCategories(repo, &invalidations{})
	uc.now = clock

	sub, err := uc.Execute(context.Background(), 1, []uint{3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}

	stored := base.Subscriptions[1]
	if stored.PlanType != "annual" || stored.LastPaymentID != "777" {
		t.Fatalf("upgrade lost: plan_type=%s last_payment=%q", stored.PlanType, stored.LastPaymentID)
	}
	wantEnd := now.AddDate(1, 0, 0)
	if stored.EndDate == nil || !stored.EndDate.Equal(wantEnd) {
		t.Fatalf("end date = %v, want %v", stored.EndDate, wantEnd)
	}
	if len(stored.SelectedCategories) != 3 || sub.PlanType != "annual" {
		t.Fatalf("selection = %v, returned plan = %s", stored.SelectedCategories, sub.PlanType)
	}
	if base.Users[1].Plan != "annual" {
		t.Fatalf("user plan = %s", base.Users[1].Plan)
	}

	// reentrega da mesma notificação continua sendo no-op
	again, err := confirm.Execute(context.Background(), "777")
	if err != nil {
		t.Fatal(err)
	}
	if again.Applied || gw.gets != 1 {
		t.Fatalf("redelivery applied again: applied=%v gets=%d", again.Applied, gw.gets)
	}
}

func TestSelectCategoriesChecksQuotaOnLockedRow(t *testing.T) {
	base := newAccounts()
	base.AddSubscription(activeSub(1, plan.Annual))

	repo := &paymentDuringSelection{AccountRepo: base}
	repo.confirm = func() {
		// rebaixado para mensal entre a requisição e a gravação
		base.Subscriptions[1].PlanType = string(plan.Monthly)
	}

	uc := NewSelectCategories(repo, &invalidations{})
	uc.now = clock

	var qe *domain.QuotaExceededError
	if _, err := uc.Execute(context.Background(), 1, seq(15)); !errors.As(err, &qe) || qe.Quota != 10 {
		t.Fatalf("expected monthly quota error, got %v", err)
	}
	if len(base.Subscriptions[1].SelectedCategories) != 0 {
		t.Fatal("selection written despite quota error")
	}
}

// ======================================================
// CHECKOUT
// ======================================================

func TestCheckoutFreePlanActivatesDirectly(t *testing.T) {
	repo := newAccounts()
	gw := &fakeGateway{}
	rec := &testutil.Recorder{}
	uc := NewCheckout(repo, gw, &invalidations{}, rec)
	uc.now = clock

	res, err := uc.Execute(context.Background(), 1, "free")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Activated || res.Subscription.PlanType != "free" || res.Subscription.EndDate != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(gw.requests) != 0 {
		t.Fatal("free plan must not hit the gateway")
	}
	if rec.Actions()[0] != "subscription_activated" {
		t.Fatalf("audit = %v", rec.Actions())
	}
}

func TestCheckoutPaidPlanCreatesPreference(t *testing.T) {
	repo := newAccounts()
	gw := &fakeGateway{}
	uc := NewCheckout(repo, gw, &invalidations{}, &testutil.Recorder{})

	res, err := uc.Execute(context.Background(), 1, "annual")
	if err != nil {
		t.Fatal(err)
	}
	if res.Activated || res.RedirectURL == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(gw.requests) != 1 {
		t.Fatalf("expected 1 checkout request, got %d", len(gw.requests))
	}

	req := gw.requests[0]
	if !strings.HasPrefix(req.Reference, "1:annual:") || req.Amount != 249.90 || req.PayerEmail != "bia@example.com" {
		t.Fatalf("unexpected request %+v", req)
	}
	if repo.Users[1].Plan != "free" {
		t.Fatal("plan must only change after payment confirmation")
	}
}

func TestCheckoutErrors(t *testing.T) {
	uc := NewCheckout(newAccounts(), &fakeGateway{}, &invalidations{}, &testutil.Recorder{})
	if _, err := uc.Execute(context.Background(), 1, "gold"); !httperr.IsBusiness(err, "invalid_plan") {
		t.Fatalf("expected invalid_plan, got %v", err)
	}

	off := NewCheckout(newAccounts(), &fakeGateway{err: payment.ErrNotConfigured}, &invalidations{}, &testutil.Recorder{})
	if _, err := off.Execute(context.Background(), 1, "monthly"); !httperr.IsBusiness(err, "checkout_unavailable") {
		t.Fatalf("expected checkout_unavailable, got %v", err)
	}
}

// ======================================================
// CONFIRM PAYMENT
// ======================================================

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	repo := newAccounts()
	gw := &fakeGateway{payments: map[string]*payment.Payment{
		"555": {ID: "555", Status: payment.StatusApproved, Reference: "1:monthly:abc", Amount: 29.90},
	}}
	inv := &invalidations{}
	rec := &testutil.Recorder{}
	uc := NewConfirmPayment(repo, gw, inv, rec)
	uc.now = clock

	res, err := uc.Execute(context.Background(), "555")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Applied {
		t.Fatal("first confirmation should apply")
	}

	sub := repo.Subscriptions[1]
	wantEnd := now.AddDate(0, 1, 0)
	if sub.PlanType != "monthly" || sub.Status != "active" || sub.EndDate == nil || !sub.EndDate.Equal(wantEnd) {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if repo.Users[1].Plan != "monthly" {
		t.Fatalf("user plan = %s", repo.Users[1].Plan)
	}

	again, err := uc.Execute(context.Background(), "555")
	if err != nil {
		t.Fatal(err)
	}
	if again.Applied {
		t.Fatal("second confirmation must be a no-op")
	}
	if !repo.Subscriptions[1].EndDate.Equal(wantEnd) {
		t.Fatal("period extended twice")
	}
	if gw.gets != 1 {
		t.Fatalf("gateway queried %d times", gw.gets)
	}
	if len(rec.Actions()) != 1 || len(inv.users) != 1 {
		t.Fatalf("side effects repeated: audit=%v invalidations=%v", rec.Actions(), inv.users)
	}
}

func TestConfirmPaymentPendingDoesNothing(t *testing.T) {
	repo := newAccounts()
	gw := &fakeGateway{payments: map[string]*payment.Payment{
		"9": {ID: "9", Status: "pending", Reference: "1:annual:x"},
	}}
	uc := NewConfirmPayment(repo, gw, &invalidations{}, &testutil.Recorder{})

	res, err := uc.Execute(context.Background(), "9")
	if err != nil {
		t.Fatal(err)
	}
	if res.Applied || res.Status != "pending" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(repo.Subscriptions) != 0 {
		t.Fatal("subscription created for pending payment")
	}
}

func TestConfirmPaymentRejectsBadReference(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*payment.Payment{
		"1": {ID: "1", Status: payment.StatusApproved, Reference: "1:free:x"},
	}}
	uc := NewConfirmPayment(newAccounts(), gw, &invalidations{}, &testutil.Recorder{})

	if _, err := uc.Execute(context.Background(), "1"); !httperr.IsBusiness(err, "invalid_reference") {
		t.Fatalf("expected invalid_reference, got %v", err)
	}
}

func TestConfirmPaymentUnknownUser(t *testing.T) {
	gw := &fakeGateway{payments: map[string]*payment.Payment{
		"2": {ID: "2", Status: payment.StatusApproved, Reference: "404:monthly:x"},
	}}
	repo := newAccounts()
	uc := NewConfirmPayment(repo, gw, &invalidations{}, &testutil.Recorder{})

	if _, err := uc.Execute(context.Background(), "2"); !httperr.IsBusiness(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
	if len(repo.Subscriptions) != 0 {
		t.Fatal("subscription created for unknown user")
	}
}

// ======================================================
// CANCEL / SWEEPER
// ======================================================

func TestCancel(t *testing.T) {
	repo := newAccounts()
	repo.Users[1].Plan = "annual"
	repo.AddSubscription(activeSub(1, plan.Annual))
	uc := NewCancel(repo, &invalidations{}, &testutil.Recorder{})

	sub, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Status != "canceled" || repo.Users[1].Plan != "free" {
		t.Fatalf("unexpected state: sub=%s plan=%s", sub.Status, repo.Users[1].Plan)
	}

	if _, err := uc.Execute(context.Background(), 1); !httperr.IsBusiness(err, "subscription_not_active") {
		t.Fatalf("expected subscription_not_active, got %v", err)
	}
}

func TestSweeperExpiresElapsedSubscriptions(t *testing.T) {
	repo := newAccounts()
	repo.AddUser(models.User{ID: 2, Name: "Caio", Plan: "monthly"})
	repo.Users[1].Plan = "annual"

	elapsed := activeSub(1, plan.Annual)
	past := now.Add(-time.Minute)
	elapsed.EndDate = &past
	repo.AddSubscription(elapsed)
	repo.AddSubscription(activeSub(2, plan.Monthly))

	inv := &invalidations{}
	s := NewExpirySweeper(repo, inv, &testutil.Recorder{}, time.Hour)
	s.now = clock

	n, err := s.SweepOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expired %d subscriptions, want 1", n)
	}
	if repo.Subscriptions[1].Status != "past_due" || repo.Users[1].Plan != "free" {
		t.Fatal("elapsed subscription not downgraded")
	}
	if repo.Subscriptions[2].Status != "active" || repo.Users[2].Plan != "monthly" {
		t.Fatal("current subscription touched")
	}
	if len(inv.users) != 1 || inv.users[0] != 1 {
		t.Fatalf("invalidations = %v", inv.users)
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	s := NewExpirySweeper(newAccounts(), &invalidations{}, &testutil.Recorder{}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestParseReference(t *testing.T) {
	ref := Reference(42, plan.SemiAnnual)
	id, p, ok := ParseReference(ref)
	if !ok || id != 42 || p != plan.SemiAnnual {
		t.Fatalf("round trip failed: %q -> %d %s %v", ref, id, p, ok)
	}

	for _, bad := range []string{"", "x:monthly:1", "0:monthly:1", "1:gold:1", "1:monthly"} {
		if _, _, ok := ParseReference(bad); ok {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}
