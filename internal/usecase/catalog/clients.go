package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/oficina-maquinas/internal/audit"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ClientInput struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

func (in ClientInput) apply(c *models.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.Email = strings.TrimSpace(in.Email)
}

// ======================================================
// USE CASE
// ======================================================

type Clients struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewClients(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Clients {
	return &Clients{
		repo:  repo,
		audit: audit,
	}
}

// List devolve todos os clientes ou, com query, os que batem por
// nome, telefone ou endereço.
func (uc *Clients) List(ctx context.Context, query string) ([]models.Client, error) {
	clients, err := uc.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.TrimSpace(query)
	if term == "" {
		return clients, nil
	}

	lower := strings.ToLower(term)
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(c.Phone, term) ||
			strings.Contains(strings.ToLower(c.Address), lower) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (uc *Clients) Get(ctx context.Context, id string) (*models.Client, error) {
	return uc.repo.GetClient(ctx, id)
}

func (uc *Clients) Create(
	ctx context.Context,
	actor string,
	in ClientInput,
) (*models.Client, error) {

	var c models.Client
	in.apply(&c)

	created, err := uc.repo.CreateClient(ctx, c)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "client_created",
		Entity:   "client",
		EntityID: created.ID,
	})

	return created, nil
}

func (uc *Clients) Update(
	ctx context.Context,
	actor string,
	id string,
	in ClientInput,
) (*models.Client, error) {

	current, err := uc.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(current)

	updated, err := uc.repo.UpdateClient(ctx, *current)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "client_updated",
		Entity:   "client",
		EntityID: id,
	})

	return updated, nil
}

// Delete remove o cliente com suas máquinas e peças.
// false quando o cliente já não existia.
func (uc *Clients) Delete(ctx context.Context, actor string, id string) (bool, error) {
	removed, err := uc.repo.DeleteClient(ctx, id)
	if err != nil || !removed {
		return removed, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: id,
	})

	return true, nil
}
