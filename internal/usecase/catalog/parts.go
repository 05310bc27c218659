package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/oficina-maquinas/internal/audit"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

type PartInput struct {
	Name     string
	Model    string
	Quantity int
}

func (in PartInput) apply(p *models.Part) {
	p.Name = strings.TrimSpace(in.Name)
	p.Model = strings.TrimSpace(in.Model)

	// quantidade zerada ou negativa vira 1, como no editor de peças
	p.Quantity = in.Quantity
	if p.Quantity <= 0 {
		p.Quantity = 1
	}
}

type Parts struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewParts(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Parts {
	return &Parts{
		repo:  repo,
		audit: audit,
	}
}

func (uc *Parts) List(ctx context.Context) ([]models.Part, error) {
	return uc.repo.ListParts(ctx)
}

func (uc *Parts) ListByMachine(ctx context.Context, machineID string) ([]models.Part, error) {
	return uc.repo.ListPartsByMachine(ctx, machineID)
}

func (uc *Parts) Get(ctx context.Context, id string) (*models.Part, error) {
	return uc.repo.GetPart(ctx, id)
}

func (uc *Parts) Create(
	ctx context.Context,
	actor string,
	machineID string,
	in PartInput,
) (*models.Part, error) {

	p := models.Part{MachineID: machineID}
	in.apply(&p)

	created, err := uc.repo.CreatePart(ctx, p)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "part_created",
		Entity:   "part",
		EntityID: created.ID,
		Metadata: map[string]string{"maquinaId": machineID},
	})

	return created, nil
}

func (uc *Parts) Update(
	ctx context.Context,
	actor string,
	id string,
	in PartInput,
) (*models.Part, error) {

	current, err := uc.repo.GetPart(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(current)

	updated, err := uc.repo.UpdatePart(ctx, *current)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "part_updated",
		Entity:   "part",
		EntityID: id,
	})

	return updated, nil
}

func (uc *Parts) Delete(ctx context.Context, actor string, id string) (bool, error) {
	removed, err := uc.repo.DeletePart(ctx, id)
	if err != nil || !removed {
		return removed, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "part_deleted",
		Entity:   "part",
		EntityID: id,
	})

	return true, nil
}
