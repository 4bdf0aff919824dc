package rating

type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var tags = []Tag{
	{ID: "atraso_entrega", Label: "Atraso na entrega"},
	{ID: "produto_divergente", Label: "Produto diferente do anunciado"},
	{ID: "qualidade_baixa", Label: "Qualidade abaixo do esperado"},
	{ID: "atendimento_ruim", Label: "Atendimento ruim"},
	{ID: "sem_resposta", Label: "Não respondeu o contato"},
	{ID: "preco_alterado", Label: "Preço diferente do combinado"},
	{ID: "pedido_minimo", Label: "Pedido mínimo abusivo"},
	{ID: "embalagem", Label: "Problema na embalagem"},
}

func Tags() []Tag {
	return append([]Tag(nil), tags...)
}

func IsValidTag(id string) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
