// Package kvstore é o armazenamento chave-valor onde ficam as coleções
// serializadas. Cada valor é uma string opaca (JSON, para o catálogo).
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound indica que a chave nunca foi gravada.
	ErrKeyNotFound = errors.New("kvstore: key not found")

	// ErrUnavailable indica que o backend não respondeu (conexão, timeout).
	ErrUnavailable = errors.New("kvstore: backend unavailable")
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// SetMany grava todas as entradas ou nenhuma.
	SetMany(ctx context.Context, entries map[string]string) error

	Close() error
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrKeyNotFound) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
