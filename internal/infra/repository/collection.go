package repository

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/kvstore"
)

// Chaves fixas das coleções no armazenamento chave-valor.
const (
	KeyClients  = "@clientes"
	KeyMachines = "@maquinas"
	KeyParts    = "@pecas"
)

// collection lê e grava um array JSON inteiro sob uma única chave.
type collection[T any] struct {
	store kvstore.Store
	key   string
}

func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if kvstore.IsNotFound(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStorageUnavailable, c.key, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorruptCollection, c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c collection[T]) encode(items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", c.key, err)
	}
	return string(b), nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	raw, err := c.encode(items)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrStorageUnavailable, c.key, err)
	}
	return nil
}

// without devolve uma cópia sem os itens que casam com drop.
func without[T any](items []T, drop func(T) bool) (kept []T, removed []T) {
	kept = make([]T, 0, len(items))
	for _, it := range items {
		if drop(it) {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	return kept, removed
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
