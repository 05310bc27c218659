package validators

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsPhoneValid aceita (00) 00000-0000 e (00) 0000-0000.
func IsPhoneValid(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

func IsEmailValid(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

var registerOnce sync.Once

// Register instala as tags "notblank", "telefone" e "emailopcional" no
// validator do gin.
// Pode ser chamado mais de uma vez.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		_ = v.RegisterValidation("telefone", func(fl validator.FieldLevel) bool {
			return IsPhoneValid(fl.Field().String())
		})

		// vazio é permitido; preenchido precisa ter formato de e-mail
		_ = v.RegisterValidation("emailopcional", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			return s == "" || IsEmailValid(s)
		})
	})
}
