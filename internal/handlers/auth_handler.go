package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/oficina-maquinas/internal/config"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

// --------- Requests ---------

type LoginRequest struct {
	Usuario string `json:"usuario" binding:"notblank"`
	Senha   string `json:"senha" binding:"notblank,min=4"`
}

// --------- Handlers ---------

// Login é o login de demonstração do aplicativo: qualquer usuário
// preenchido com senha de 4+ caracteres entra.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user := strings.TrimSpace(req.Usuario)

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Não foi possível gerar o token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usuario": user,
		"token":   token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user string) (string, error) {
	claims := jwt.MapClaims{
		"sub": user,
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
