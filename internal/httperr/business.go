package httperr

import "errors"

// BusinessError carrega só o código (snake_case) que vai para o cliente.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// BusinessCode devolve o código do primeiro BusinessError da cadeia.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

func IsBusiness(err error, code string) bool {
	got, ok := BusinessCode(err)
	return ok && got == code
}
