package rating

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

func TestApplyReplacesSameUser(t *testing.T) {
	now := time.Now()
	ratings := []models.Rating{
		{UserID: 1, Score: 5},
		{UserID: 2, Score: 3},
	}

	out, replaced := Apply(ratings, Submission{UserID: 2, Score: 5}, now)

	if !replaced {
		t.Fatal("expected existing rating to be replaced")
	}
	if len(out) != 2 {
		t.Fatalf("list length changed: %d", len(out))
	}
	if avg := Average(out); avg != 5.0 {
		t.Fatalf("average = %v, want 5.0", avg)
	}
	if ratings[1].Score != 3 {
		t.Fatal("input slice must not be mutated")
	}
}

func TestApplyAppendsNewUser(t *testing.T) {
	ratings := []models.Rating{{UserID: 1, Score: 4}}

	out, replaced := Apply(ratings, Submission{SupplierID: 9, UserID: 2, UserName: "Ana", Score: 2, ComplaintTags: []string{"embalagem"}}, time.Now())

	if replaced {
		t.Fatal("new user should append")
	}
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	last := out[1]
	if last.SupplierID != 9 || last.UserName != "Ana" || len(last.ComplaintTags) != 1 {
		t.Fatalf("unexpected rating: %+v", last)
	}
	if avg := Average(out); avg != 3.0 {
		t.Fatalf("average = %v, want 3.0", avg)
	}
}

func TestRemove(t *testing.T) {
	ratings := []models.Rating{{UserID: 1, Score: 1}, {UserID: 2, Score: 5}}

	out, removed := Remove(ratings, 1)
	if !removed || len(out) != 1 || Average(out) != 5 {
		t.Fatalf("remove failed: %v %+v", removed, out)
	}

	if _, removed := Remove(out, 42); removed {
		t.Fatal("unknown user should not be removed")
	}
}

func TestAverageEmpty(t *testing.T) {
	if Average(nil) != 0 {
		t.Fatal("empty average must be 0")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
		code string
	}{
		{"ok high score", Submission{Score: 5, Comment: "ótimo"}, ""},
		{"ok low score with tags", Submission{Score: 2, ComplaintTags: []string{"atraso_entrega", "embalagem"}}, ""},
		{"zero score", Submission{Score: 0}, "invalid_rating"},
		{"six", Submission{Score: 6}, "invalid_rating"},
		{"tags on high score", Submission{Score: 4, ComplaintTags: []string{"embalagem"}}, "complaint_tags_not_allowed"},
		{"too many tags", Submission{Score: 1, ComplaintTags: []string{"atraso_entrega", "produto_divergente", "qualidade_baixa", "atendimento_ruim", "sem_resposta", "embalagem"}}, "too_many_complaint_tags"},
		{"unknown tag", Submission{Score: 1, ComplaintTags: []string{"xyz"}}, "invalid_complaint_tag"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.sub)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}
