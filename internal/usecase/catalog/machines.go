package catalog

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/oficina-maquinas/internal/audit"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

type MachineInput struct {
	Name            string
	Model           string
	LastMaintenance string
}

func (in MachineInput) apply(m *models.Machine) {
	m.Name = strings.TrimSpace(in.Name)
	m.Model = strings.TrimSpace(in.Model)
	m.LastMaintenance = strings.TrimSpace(in.LastMaintenance)
}

type Machines struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMachines(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Machines {
	return &Machines{
		repo:  repo,
		audit: audit,
	}
}

func (uc *Machines) List(ctx context.Context) ([]models.Machine, error) {
	return uc.repo.ListMachines(ctx)
}

// ListByClient devolve as máquinas do cliente na ordem de cadastro; com
// query, só as que batem por nome ou modelo (sem diferenciar maiúsculas).
func (uc *Machines) ListByClient(ctx context.Context, clientID, query string) ([]models.Machine, error) {
	machines, err := uc.repo.ListMachinesByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return machines, nil
	}

	out := make([]models.Machine, 0, len(machines))
	for _, m := range machines {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Model), term) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (uc *Machines) Get(ctx context.Context, id string) (*models.Machine, error) {
	return uc.repo.GetMachine(ctx, id)
}

// Create não confere se o cliente existe; o vínculo só é usado
// para filtro e exclusão em cascata.
func (uc *Machines) Create(
	ctx context.Context,
	actor string,
	clientID string,
	in MachineInput,
) (*models.Machine, error) {

	m := models.Machine{ClientID: clientID}
	in.apply(&m)

	created, err := uc.repo.CreateMachine(ctx, m)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "machine_created",
		Entity:   "machine",
		EntityID: created.ID,
		Metadata: map[string]string{"clienteId": clientID},
	})

	return created, nil
}

func (uc *Machines) Update(
	ctx context.Context,
	actor string,
	id string,
	in MachineInput,
) (*models.Machine, error) {

	current, err := uc.repo.GetMachine(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(current)

	updated, err := uc.repo.UpdateMachine(ctx, *current)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "machine_updated",
		Entity:   "machine",
		EntityID: id,
	})

	return updated, nil
}

func (uc *Machines) Delete(ctx context.Context, actor string, id string) (bool, error) {
	removed, err := uc.repo.DeleteMachine(ctx, id)
	if err != nil || !removed {
		return removed, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "machine_deleted",
		Entity:   "machine",
		EntityID: id,
	})

	return true, nil
}
