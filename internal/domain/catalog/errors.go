package catalog

import (
	"errors"

	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
)

var (
	// ErrStorageUnavailable: o armazenamento não pôde ser lido ou gravado.
	// Nunca é confundido com coleção vazia.
	ErrStorageUnavailable = errors.New("catalog: storage unavailable")

	// ErrCorruptCollection: o valor gravado não é um JSON válido da coleção.
	ErrCorruptCollection = errors.New("catalog: corrupt collection")
)

// ===============================
// Business codes
// ===============================

const (
	CodeClientNotFound  = "client_not_found"
	CodeMachineNotFound = "machine_not_found"
	CodePartNotFound    = "part_not_found"
)

func ErrClientNotFound() error  { return httperr.ErrBusiness(CodeClientNotFound) }
func ErrMachineNotFound() error { return httperr.ErrBusiness(CodeMachineNotFound) }
func ErrPartNotFound() error    { return httperr.ErrBusiness(CodePartNotFound) }

// IsNotFound cobre os três códigos de registro inexistente.
func IsNotFound(err error) bool {
	return httperr.IsBusiness(err, CodeClientNotFound) ||
		httperr.IsBusiness(err, CodeMachineNotFound) ||
		httperr.IsBusiness(err, CodePartNotFound)
}

func IsStorageUnavailable(err error) bool { return errors.Is(err, ErrStorageUnavailable) }
func IsCorrupt(err error) bool            { return errors.Is(err, ErrCorruptCollection) }
