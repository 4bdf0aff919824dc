package access

import (
	"testing"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

func supplier(free, genius bool, categoryIDs ...uint) *models.Supplier {
	s := &models.Supplier{IsFreeSupplier: free, IsGeniusStudent: genius}
	for _, id := range categoryIDs {
		s.Categories = append(s.Categories, models.Category{ID: id})
	}
	return s
}

func viewer(role string, p plan.ID) *Viewer {
	return &Viewer{UserID: 1, Role: role, Plan: p}
}

func geniusViewer(p plan.ID) *Viewer {
	v := viewer(RoleAluno, p)
	v.GeniusStatus = GeniusApproved
	v.GeniusCoupon = GeniusCoupon
	return v
}

func TestDecide(t *testing.T) {
	const (
		catA uint = 1
		catB uint = 2
		catC uint = 3
		catD uint = 4
	)

	monthlyAB := &Grant{PlanType: plan.Monthly, SelectedCategories: []uint{catA, catB}}

	cases := []struct {
		name string
		v    *Viewer
		g    *Grant
		s    *models.Supplier
		want Decision
	}{
		{"admin sees paid supplier", viewer(RoleAdmin, plan.Free), nil, supplier(false, false, catC), GrantedAdmin},
		{"master sees genius supplier", viewer(RoleMaster, plan.Free), nil, supplier(false, true), GrantedAdmin},
		{"admin before free flag", viewer(RoleAdmin, plan.Free), nil, supplier(true, false), GrantedAdmin},
		{"anonymous sees free supplier", nil, nil, supplier(true, false), GrantedFreeSupplier},
		{"anonymous blocked on paid supplier", nil, nil, supplier(false, false, catA), DeniedLoginRequired},
		{"anonymous blocked on genius supplier", nil, nil, supplier(false, true), DeniedLoginRequired},
		{"free plan user sees free supplier", viewer(RoleUser, plan.Free), nil, supplier(true, false), GrantedFreeSupplier},
		{"free plan user blocked", viewer(RoleUser, plan.Free), nil, supplier(false, false, catA), DeniedFreePlan},
		{"genius approved on free plan", geniusViewer(plan.Free), nil, supplier(false, true), GrantedGenius},
		{"genius does not extend to regular suppliers", geniusViewer(plan.Free), nil, supplier(false, false, catA), DeniedFreePlan},
		{"annual user plan", viewer(RoleUser, plan.Annual), nil, supplier(false, false, catD), GrantedAnnual},
		{"annual subscription", viewer(RoleUser, plan.Monthly), &Grant{PlanType: plan.Annual}, supplier(false, false, catD), GrantedAnnual},
		{"monthly intersecting categories", viewer(RoleUser, plan.Monthly), monthlyAB, supplier(false, false, catB, catC), GrantedCategory},
		{"monthly disjoint categories", viewer(RoleUser, plan.Monthly), monthlyAB, supplier(false, false, catC, catD), DeniedCategory},
		{"monthly without subscription", viewer(RoleUser, plan.Monthly), nil, supplier(false, false, catA), DeniedCategory},
		{"supplier without categories", viewer(RoleUser, plan.SemiAnnual), monthlyAB, supplier(false, false), DeniedCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.v, tc.g, tc.s)
			if got != tc.want {
				t.Fatalf("Decide = %s, want %s", got, tc.want)
			}
			if CanAccess(tc.v, tc.g, tc.s) != tc.want.Allowed() {
				t.Fatal("CanAccess disagrees with Decide")
			}
		})
	}
}

func TestGeniusRequiresApprovalAndCoupon(t *testing.T) {
	s := supplier(false, true)

	pending := geniusViewer(plan.Free)
	pending.GeniusStatus = GeniusPending
	if CanAccess(pending, nil, s) {
		t.Fatal("pending genius must not get access")
	}

	wrongCoupon := geniusViewer(plan.Free)
	wrongCoupon.GeniusCoupon = "OUTRO"
	if CanAccess(wrongCoupon, nil, s) {
		t.Fatal("wrong coupon must not get access")
	}

	blocked := geniusViewer(plan.Free)
	blocked.GeniusStatus = GeniusBlocked
	if CanAccess(blocked, nil, s) {
		t.Fatal("blocked genius must not get access")
	}
}

func TestFreeSuppliersAlwaysVisible(t *testing.T) {
	s := supplier(true, false, 9)
	viewers := []*Viewer{
		nil,
		viewer(RoleUser, plan.Free),
		viewer(RoleAluno, plan.Monthly),
		viewer(RoleUser, plan.Annual),
		viewer(RoleAdmin, plan.Free),
	}
	grants := []*Grant{nil, {PlanType: plan.Monthly}, {PlanType: plan.Monthly, SelectedCategories: []uint{1}}}

	for _, v := range viewers {
		for _, g := range grants {
			if !CanAccess(v, g, s) {
				t.Fatalf("free supplier hidden for viewer %+v grant %+v", v, g)
			}
		}
	}
}

func TestAdminsSeeEverything(t *testing.T) {
	suppliers := []*models.Supplier{
		supplier(false, false),
		supplier(false, true),
		supplier(false, false, 1, 2),
		supplier(true, true),
	}
	for _, role := range []string{RoleAdmin, RoleMaster} {
		for _, s := range suppliers {
			if !CanAccess(viewer(role, plan.Free), nil, s) {
				t.Fatalf("%s denied supplier %+v", role, s)
			}
		}
	}
}

func TestFilterAccessibleKeepsOrder(t *testing.T) {
	all := []models.Supplier{
		{ID: 1, IsFreeSupplier: true},
		{ID: 2, Categories: []models.Category{{ID: 10}}},
		{ID: 3, Categories: []models.Category{{ID: 20}}},
		{ID: 4, IsFreeSupplier: true},
		{ID: 5, Categories: []models.Category{{ID: 10}, {ID: 30}}},
	}
	v := viewer(RoleUser, plan.Monthly)
	g := &Grant{PlanType: plan.Monthly, SelectedCategories: []uint{10}}

	got := FilterAccessible(v, g, all)
	want := []uint{1, 2, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %d suppliers, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.ID != want[i] {
			t.Fatalf("position %d: got %d want %d", i, s.ID, want[i])
		}
	}

	anon := FilterAccessible(nil, nil, all)
	if len(anon) != 2 {
		t.Fatalf("anonymous should see 2 free suppliers, got %d", len(anon))
	}

	free := FreeOnly(all)
	if len(free) != 2 || free[0].ID != 1 || free[1].ID != 4 {
		t.Fatalf("FreeOnly = %+v", free)
	}
}
