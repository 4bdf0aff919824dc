package plan

import "time"

// ===============================
// Plan IDs
// ===============================

type ID string

const (
	Free       ID = "free"
	Monthly    ID = "monthly"
	SemiAnnual ID = "semi_annual"
	Annual     ID = "annual"
)

type Plan struct {
	ID    ID      `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`

	// MaxCategories só vale quando Unlimited == false.
	MaxCategories int  `json:"max_categories"`
	Unlimited     bool `json:"unlimited_categories"`

	// duração do período pago; zero para o plano gratuito
	Months int `json:"months"`

	Features []string `json:"features"`
}

var catalog = []Plan{
	{
		ID:            Free,
		Name:          "Gratuito",
		Price:         0,
		MaxCategories: 0,
		Features: []string{
			"Acesso aos fornecedores gratuitos",
			"Favoritar fornecedores",
		},
	},
	{
		ID:            Monthly,
		Name:          "Mensal",
		Price:         29.90,
		MaxCategories: 10,
		Months:        1,
		Features: []string{
			"Até 10 categorias à sua escolha",
			"Avaliar fornecedores",
			"Troca de categorias a qualquer momento",
		},
	},
	{
		ID:            SemiAnnual,
		Name:          "Semestral",
		Price:         149.90,
		MaxCategories: 20,
		Months:        6,
		Features: []string{
			"Até 20 categorias à sua escolha",
			"Avaliar fornecedores",
			"Troca de categorias a qualquer momento",
		},
	},
	{
		ID:        Annual,
		Name:      "Anual",
		Price:     249.90,
		Unlimited: true,
		Months:    12,
		Features: []string{
			"Todas as categorias liberadas",
			"Avaliar fornecedores",
			"Novos fornecedores sem custo extra",
		},
	},
}

// All devolve uma cópia do catálogo na ordem de exibição.
func All() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

func Get(id ID) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			p.Features = append([]string(nil), p.Features...)
			return p, true
		}
	}
	return Plan{}, false
}

// Parse normaliza o valor persistido; vazio ou desconhecido vira Free.
func Parse(v string) ID {
	if p, ok := Get(ID(v)); ok {
		return p.ID
	}
	return Free
}

func IsValid(v string) bool {
	_, ok := Get(ID(v))
	return ok
}

func IsPaid(id ID) bool {
	p, ok := Get(id)
	return ok && p.Price > 0
}

func Quota(id ID) (max int, unlimited bool) {
	p, ok := Get(id)
	if !ok {
		return 0, false
	}
	return p.MaxCategories, p.Unlimited
}

// EndDate calcula o fim do período a partir de start. Plano gratuito não expira.
func (p Plan) EndDate(start time.Time) *time.Time {
	if p.Months <= 0 {
		return nil
	}
	end := start.AddDate(0, p.Months, 0)
	return &end
}
