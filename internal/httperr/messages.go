package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type businessMapping struct {
	status  int
	message string
}

// mensagens exibidas no toast do front
var businessMessages = map[string]businessMapping{
	"invalid_plan":               {http.StatusBadRequest, "Plano inválido."},
	"invalid_rating":             {http.StatusBadRequest, "A nota deve ser entre 1 e 5."},
	"too_many_complaint_tags":    {http.StatusBadRequest, "Selecione no máximo 5 motivos."},
	"complaint_tags_not_allowed": {http.StatusBadRequest, "Motivos só podem ser informados para notas até 3."},
	"invalid_complaint_tag":      {http.StatusBadRequest, "Motivo de reclamação inválido."},
	"invalid_category":           {http.StatusBadRequest, "Categoria inexistente."},
	"invalid_coupon":             {http.StatusBadRequest, "Cupom inválido."},
	"invalid_name":               {http.StatusBadRequest, "Informe o nome."},
	"invalid_reference":          {http.StatusBadRequest, "Referência de pagamento inválida."},
	"invalid_delay":              {http.StatusBadRequest, "O tempo de exibição deve ser entre 1 e 20 segundos."},
	"invalid_media_type":         {http.StatusBadRequest, "Tipo de mídia deve ser image ou video."},
	"invalid_role":               {http.StatusBadRequest, "Perfil de acesso inválido."},
	"invalid_genius_status":      {http.StatusBadRequest, "Status do programa inválido."},
	"invalid_folder":             {http.StatusBadRequest, "Pasta de upload inválida."},
	"login_required":             {http.StatusUnauthorized, "Faça login para ver este fornecedor."},
	"supplier_locked":            {http.StatusForbidden, "Este fornecedor não está incluso no seu plano."},
	"forbidden":                  {http.StatusForbidden, "Você não tem permissão para esta ação."},
	"cannot_change_own_role":     {http.StatusForbidden, "Você não pode alterar o próprio perfil de acesso."},
	"supplier_not_found":         {http.StatusNotFound, "Fornecedor não encontrado."},
	"category_not_found":         {http.StatusNotFound, "Categoria não encontrada."},
	"highlight_not_found":        {http.StatusNotFound, "Destaque não encontrado."},
	"user_not_found":             {http.StatusNotFound, "Usuário não encontrado."},
	"rating_not_found":           {http.StatusNotFound, "Avaliação não encontrada."},
	"subscription_not_found":     {http.StatusNotFound, "Assinatura não encontrada."},
	"payment_not_found":          {http.StatusNotFound, "Pagamento não encontrado."},
	"category_in_use":            {http.StatusConflict, "Categoria vinculada a fornecedores não pode ser excluída."},
	"email_already_exists":       {http.StatusConflict, "E-mail já cadastrado."},
	"subscription_not_active":    {http.StatusConflict, "Assinatura não está ativa."},
	"checkout_unavailable":       {http.StatusServiceUnavailable, "Pagamento indisponível no momento."},
	"upload_unavailable":         {http.StatusServiceUnavailable, "Upload indisponível no momento."},
	"unsupported_media":          {http.StatusUnsupportedMediaType, "Formato de arquivo não suportado."},
}

// FromError traduz erros de domínio para a resposta HTTP padrão.
func FromError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	if code, ok := BusinessCode(err); ok {
		if m, found := businessMessages[code]; found {
			Write(c, m.status, code, m.message)
			return
		}
		BadRequest(c, code, fallbackMessage)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Registro não encontrado.")
		return
	}

	Internal(c, fallbackCode, fallbackMessage)
}

// Business responde com o status e a mensagem cadastrados para code.
func Business(c *gin.Context, code string) {
	FromError(c, ErrBusiness(code), "internal_error", "Erro interno.")
}
