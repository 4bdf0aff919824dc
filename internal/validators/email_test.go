package validators

import (
	"context"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestIsEmailSyntaxValid(t *testing.T) {
	for _, ok := range []string{"ana@example.com", "a.b+c@sub.example.com.br"} {
		if !IsEmailSyntaxValid(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"", "ana", "ana@", "Ana <ana@example.com>"} {
		if IsEmailSyntaxValid(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestIsEmailDomainValidRejectsMissingDomain(t *testing.T) {
	if IsEmailDomainValid(context.Background(), "ana@") {
		t.Fatal("empty domain accepted")
	}
}
