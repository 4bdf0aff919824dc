// Package access decide quais fornecedores um visitante pode ver.
//
// Todas as rotas (listagem, detalhe, avaliação) passam por CanAccess ou
// FilterAccessible; nenhuma outra parte do código repete a cadeia de regras.
package access

import (
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

// ===============================
// Roles / Programa Genius
// ===============================

const (
	RoleMaster = "master"
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleAluno  = "aluno"
)

const (
	GeniusPending  = "pending"
	GeniusApproved = "approved"
	GeniusBlocked  = "blocked"
)

// GeniusCoupon é o cupom do programa de alunos.
const GeniusCoupon = "ALUNOREDEGENIUS"

func IsValidRole(role string) bool {
	switch role {
	case RoleMaster, RoleAdmin, RoleUser, RoleAluno:
		return true
	}
	return false
}

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleMaster
}

func IsValidGeniusStatus(status string) bool {
	switch status {
	case GeniusPending, GeniusApproved, GeniusBlocked:
		return true
	}
	return false
}

// ===============================
// Inputs
// ===============================

// Viewer é o usuário logado. nil representa visitante anônimo.
type Viewer struct {
	UserID       uint
	Role         string
	Plan         plan.ID
	GeniusStatus string
	GeniusCoupon string
}

// Grant é a assinatura do usuário. nil quando não há assinatura vigente.
type Grant struct {
	PlanType           plan.ID
	SelectedCategories []uint
}

// ===============================
// Decision
// ===============================

type Decision int

const (
	DeniedLoginRequired Decision = iota
	DeniedFreePlan
	DeniedCategory
	GrantedAdmin
	GrantedFreeSupplier
	GrantedGenius
	GrantedAnnual
	GrantedCategory
)

func (d Decision) Allowed() bool {
	return d >= GrantedAdmin
}

func (d Decision) String() string {
	switch d {
	case DeniedLoginRequired:
		return "login_required"
	case DeniedFreePlan:
		return "free_plan"
	case DeniedCategory:
		return "category_not_selected"
	case GrantedAdmin:
		return "admin"
	case GrantedFreeSupplier:
		return "free_supplier"
	case GrantedGenius:
		return "genius"
	case GrantedAnnual:
		return "annual"
	case GrantedCategory:
		return "category"
	}
	return "unknown"
}

// Decide aplica as regras em ordem; a primeira que casar vence.
func Decide(v *Viewer, g *Grant, s *models.Supplier) Decision {
	// 1. admin/master vê tudo
	if v != nil && IsAdminRole(v.Role) {
		return GrantedAdmin
	}

	// 2. fornecedor gratuito é público, inclusive para anônimos
	if s.IsFreeSupplier {
		return GrantedFreeSupplier
	}

	// 3. o resto exige login
	if v == nil {
		return DeniedLoginRequired
	}

	// 4. aluno genius aprovado vê fornecedores do programa, em qualquer plano
	if v.GeniusStatus == GeniusApproved &&
		v.GeniusCoupon == GeniusCoupon &&
		s.IsGeniusStudent {
		return GrantedGenius
	}

	// 5. plano gratuito para aqui
	if v.Plan == plan.Free {
		return DeniedFreePlan
	}

	// 6. anual libera todas as categorias
	if v.Plan == plan.Annual || (g != nil && g.PlanType == plan.Annual) {
		return GrantedAnnual
	}

	// 7. mensal/semestral: só as categorias escolhidas
	if g != nil && intersects(s.CategoryIDs(), g.SelectedCategories) {
		return GrantedCategory
	}

	return DeniedCategory
}

func CanAccess(v *Viewer, g *Grant, s *models.Supplier) bool {
	return Decide(v, g, s).Allowed()
}

// FilterAccessible reaplica o predicado à coleção inteira, mantendo a ordem.
func FilterAccessible(v *Viewer, g *Grant, suppliers []models.Supplier) []models.Supplier {
	out := make([]models.Supplier, 0, len(suppliers))
	for i := range suppliers {
		if CanAccess(v, g, &suppliers[i]) {
			out = append(out, suppliers[i])
		}
	}
	return out
}

// FreeOnly é o conjunto mínimo usado quando a assinatura não pôde ser lida.
func FreeOnly(suppliers []models.Supplier) []models.Supplier {
	out := make([]models.Supplier, 0, len(suppliers))
	for _, s := range suppliers {
		if s.IsFreeSupplier {
			out = append(out, s)
		}
	}
	return out
}

func intersects(a, b []uint) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[uint]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
