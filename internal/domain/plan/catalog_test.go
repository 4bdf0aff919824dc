package plan

import (
	"testing"
	"time"
)

func TestQuotas(t *testing.T) {
	cases := []struct {
		id        ID
		max       int
		unlimited bool
	}{
		{Free, 0, false},
		{Monthly, 10, false},
		{SemiAnnual, 20, false},
		{Annual, 0, true},
	}

	for _, tc := range cases {
		max, unlimited := Quota(tc.id)
		if max != tc.max || unlimited != tc.unlimited {
			t.Errorf("Quota(%s) = (%d, %v), want (%d, %v)", tc.id, max, unlimited, tc.max, tc.unlimited)
		}
	}
}

func TestAllIsACopy(t *testing.T) {
	plans := All()
	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %d", len(plans))
	}

	plans[1].MaxCategories = 999
	plans[1].Features[0] = "changed"

	p, _ := Get(Monthly)
	if p.MaxCategories != 10 || p.Features[0] == "changed" {
		t.Fatal("catalog was mutated through All()")
	}
}

func TestParseDefaultsToFree(t *testing.T) {
	if Parse("") != Free || Parse("platinum") != Free {
		t.Fatal("unknown plans must parse as free")
	}
	if Parse("annual") != Annual {
		t.Fatal("annual should parse")
	}
	if IsPaid(Free) || !IsPaid(SemiAnnual) {
		t.Fatal("IsPaid mismatch")
	}
}

func TestEndDate(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	free, _ := Get(Free)
	if free.EndDate(start) != nil {
		t.Fatal("free plan must not expire")
	}

	cases := map[ID]time.Time{
		Monthly:    time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC),
		SemiAnnual: time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC),
		Annual:     time.Date(2027, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	for id, want := range cases {
		p, _ := Get(id)
		got := p.EndDate(start)
		if got == nil || !got.Equal(want) {
			t.Errorf("%s end = %v, want %v", id, got, want)
		}
	}
}
