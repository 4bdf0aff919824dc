package subscription

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
)

// Reference é o external_reference enviado ao processador:
// <userID>:<planID>:<nonce>.
func Reference(userID uint, planID plan.ID) string {
	return fmt.Sprintf("%d:%s:%s", userID, planID, uuid.NewString())
}

func ParseReference(ref string) (uint, plan.ID, bool) {
	parts := strings.SplitN(ref, ":", 3)
	if len(parts) != 3 {
		return 0, "", false
	}

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id == 0 {
		return 0, "", false
	}

	if !plan.IsValid(parts[1]) || !plan.IsPaid(plan.ID(parts[1])) {
		return 0, "", false
	}

	return uint(id), plan.ID(parts[1]), true
}
