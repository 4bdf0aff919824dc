package supplier

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
	"github.com/BruksfildServices01/supplier-directory/internal/testutil"
	"github.com/BruksfildServices01/supplier-directory/internal/usecase/catalog"
)

func newRate(t *testing.T) (*Rate, *testutil.CatalogRepo, *testutil.AccountRepo, *testutil.Recorder) {
	t.Helper()

	repo := testutil.NewCatalogRepo()
	repo.AddCategory(1, "Bebidas")
	repo.AddSupplier(models.Supplier{ID: 1, Name: "Livre", IsFreeSupplier: true})
	repo.AddSupplier(models.Supplier{ID: 2, Name: "Pago", Categories: []models.Category{{ID: 1}}})

	accounts := testutil.NewAccountRepo()
	accounts.AddUser(models.User{ID: 7, Name: "Ana", Role: access.RoleUser, Plan: string(plan.Free)})

	agg := catalog.NewAggregator(repo, accounts, testutil.NewMemoryCache(), time.Minute)
	rec := &testutil.Recorder{}

	return NewRate(repo, accounts, agg, rec), repo, accounts, rec
}

func TestRateTwiceKeepsOneRating(t *testing.T) {
	uc, repo, _, rec := newRate(t)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, RateInput{UserID: 7, SupplierID: 1, Score: 2, ComplaintTags: []string{"atraso_entrega"}}); err != nil {
		t.Fatal(err)
	}
	s, err := uc.Execute(ctx, RateInput{UserID: 7, SupplierID: 1, Score: 5, Comment: "melhorou"})
	if err != nil {
		t.Fatal(err)
	}

	if len(repo.Ratings[1]) != 1 {
		t.Fatalf("expected a single rating, got %d", len(repo.Ratings[1]))
	}
	if s.AverageRating != 5.0 {
		t.Fatalf("average = %v, want 5.0", s.AverageRating)
	}
	r := repo.Ratings[1][0]
	if r.UserName != "Ana" || r.Comment != "melhorou" || len(r.ComplaintTags) != 0 {
		t.Fatalf("rating not replaced: %+v", r)
	}

	if got := rec.Actions(); len(got) != 2 || got[0] != "rating_created" || got[1] != "rating_updated" {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestRateRequiresAccess(t *testing.T) {
	uc, repo, _, _ := newRate(t)

	_, err := uc.Execute(context.Background(), RateInput{UserID: 7, SupplierID: 2, Score: 4})
	if !httperr.IsBusiness(err, "supplier_locked") {
		t.Fatalf("expected supplier_locked, got %v", err)
	}
	if len(repo.Ratings[2]) != 0 {
		t.Fatal("rating persisted without access")
	}
}

func TestRateReturnsSupplierWithCategories(t *testing.T) {
	uc, _, accounts, _ := newRate(t)
	accounts.AddUser(models.User{ID: 9, Name: "Gestor", Role: access.RoleAdmin})

	s, err := uc.Execute(context.Background(), RateInput{UserID: 9, SupplierID: 2, Score: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Categories) != 1 || s.Categories[0].ID != 1 {
		t.Fatalf("categories = %+v", s.Categories)
	}
	if len(s.Ratings) != 1 || s.AverageRating != 4.0 {
		t.Fatalf("ratings = %+v average = %v", s.Ratings, s.AverageRating)
	}
}

func TestRateValidation(t *testing.T) {
	uc, _, _, _ := newRate(t)

	cases := []struct {
		in   RateInput
		code string
	}{
		{RateInput{UserID: 7, SupplierID: 1, Score: 0}, "invalid_rating"},
		{RateInput{UserID: 7, SupplierID: 1, Score: 6}, "invalid_rating"},
		{RateInput{UserID: 7, SupplierID: 1, Score: 4, ComplaintTags: []string{"atraso_entrega"}}, "complaint_tags_not_allowed"},
		{RateInput{UserID: 7, SupplierID: 1, Score: 1, ComplaintTags: []string{"inventado"}}, "invalid_complaint_tag"},
	}

	for _, tc := range cases {
		if _, err := uc.Execute(context.Background(), tc.in); !httperr.IsBusiness(err, tc.code) {
			t.Fatalf("%+v: expected %s, got %v", tc.in, tc.code, err)
		}
	}
}

func TestRemoveRating(t *testing.T) {
	uc, repo, _, _ := newRate(t)
	ctx := context.Background()

	if _, err := uc.Remove(ctx, 7, 1); !httperr.IsBusiness(err, "rating_not_found") {
		t.Fatalf("expected rating_not_found, got %v", err)
	}

	if _, err := uc.Execute(ctx, RateInput{UserID: 7, SupplierID: 1, Score: 3}); err != nil {
		t.Fatal(err)
	}
	s, err := uc.Remove(ctx, 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.AverageRating != 0 || len(repo.Ratings[1]) != 0 {
		t.Fatalf("rating not removed: avg=%v n=%d", s.AverageRating, len(repo.Ratings[1]))
	}
}

func TestManageRejectsUnknownCategory(t *testing.T) {
	repo := testutil.NewCatalogRepo()
	repo.AddCategory(1, "Bebidas")
	uc := NewManage(repo, &testutil.Recorder{})

	_, err := uc.Create(context.Background(), Input{Name: "X", CategoryIDs: []uint{1, 99}})
	if !httperr.IsBusiness(err, "invalid_category") {
		t.Fatalf("expected invalid_category, got %v", err)
	}

	s, err := uc.Create(context.Background(), Input{Name: "X", CategoryIDs: []uint{1, 1}, IsFreeSupplier: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Categories) != 1 || !s.IsFreeSupplier {
		t.Fatalf("unexpected supplier %+v", s)
	}
}

func TestManageUpdateAndDelete(t *testing.T) {
	repo := testutil.NewCatalogRepo()
	repo.AddCategory(1, "Bebidas")
	repo.AddCategory(2, "Carnes")
	repo.AddSupplier(models.Supplier{ID: 5, Name: "Antigo", Categories: []models.Category{{ID: 1}}})
	rec := &testutil.Recorder{}
	uc := NewManage(repo, rec)

	s, err := uc.Update(context.Background(), 5, Input{ActorID: 1, Name: "Novo", CategoryIDs: []uint{2}, IsGeniusStudent: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "Novo" || len(s.Categories) != 1 || s.Categories[0].ID != 2 || !s.IsGeniusStudent {
		t.Fatalf("unexpected supplier %+v", s)
	}

	if _, err := uc.Update(context.Background(), 99, Input{Name: "x"}); !httperr.IsBusiness(err, "supplier_not_found") {
		t.Fatalf("expected supplier_not_found, got %v", err)
	}

	if err := uc.Delete(context.Background(), 1, 5); err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.Suppliers[5]; ok {
		t.Fatal("supplier not deleted")
	}
	if got := rec.Actions(); len(got) != 2 || got[1] != "supplier_deleted" {
		t.Fatalf("audit actions = %v", got)
	}
}
