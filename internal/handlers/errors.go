package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
)

var notFoundMessages = map[string]string{
	domain.CodeClientNotFound:  "Cliente não encontrado.",
	domain.CodeMachineNotFound: "Máquina não encontrada.",
	domain.CodePartNotFound:    "Peça não encontrada.",
}

// writeError traduz os erros do catálogo para a resposta HTTP.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case domain.IsNotFound(err):
		code, _ := httperr.BusinessCode(err)
		httperr.NotFound(c, code, notFoundMessages[code])

	case domain.IsStorageUnavailable(err):
		httperr.Unavailable(c, "storage_unavailable", "Armazenamento indisponível. Tente novamente.")

	case domain.IsCorrupt(err):
		httperr.Internal(c, "collection_corrupted", "Os dados armazenados estão corrompidos.")

	default:
		httperr.Internal(c, "internal_error", "Erro interno.")
	}
}

// --------------------------------------------------
// Validação
// --------------------------------------------------

var validationMessages = map[string]string{
	"Nome.notblank":             "Nome é obrigatório",
	"Telefone.notblank":         "Telefone é obrigatório",
	"Telefone.telefone":         "Formato de telefone inválido. Use: (00) 00000-0000",
	"Endereco.notblank":         "Endereço é obrigatório",
	"Email.emailopcional":       "Formato de email inválido",
	"Modelo.notblank":           "Modelo é obrigatório",
	"UltimaManutencao.notblank": "Data da última manutenção é obrigatória",
	"Quantidade.gte":            "Quantidade não pode ser negativa",
	"Usuario.notblank":          "Por favor, digite seu usuário",
	"Senha.notblank":            "Por favor, digite sua senha",
	"Senha.min":                 "A senha deve ter pelo menos 4 caracteres",
}

// bindJSON responde 400 e devolve false quando o corpo não passa na validação.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg, ok := validationMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Campo inválido: " + fe.Field()
		}
		httperr.Write(c, http.StatusBadRequest, "validation_failed", msg)
		return false
	}

	httperr.BadRequest(c, "invalid_request", "Corpo da requisição inválido.")
	return false
}
