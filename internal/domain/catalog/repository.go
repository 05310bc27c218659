package catalog

import (
	"context"

	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

type Repository interface {
	// -------- Client --------
	ListClients(ctx context.Context) ([]models.Client, error)

	GetClient(ctx context.Context, id string) (*models.Client, error)

	CreateClient(ctx context.Context, in models.Client) (*models.Client, error)

	UpdateClient(ctx context.Context, c models.Client) (*models.Client, error)

	// DeleteClient também remove as máquinas do cliente e as peças delas.
	DeleteClient(ctx context.Context, id string) (bool, error)

	// -------- Machine --------
	ListMachines(ctx context.Context) ([]models.Machine, error)

	ListMachinesByClient(ctx context.Context, clientID string) ([]models.Machine, error)

	GetMachine(ctx context.Context, id string) (*models.Machine, error)

	CreateMachine(ctx context.Context, in models.Machine) (*models.Machine, error)

	UpdateMachine(ctx context.Context, m models.Machine) (*models.Machine, error)

	// DeleteMachine também remove as peças da máquina.
	DeleteMachine(ctx context.Context, id string) (bool, error)

	// -------- Part --------
	ListParts(ctx context.Context) ([]models.Part, error)

	ListPartsByMachine(ctx context.Context, machineID string) ([]models.Part, error)

	GetPart(ctx context.Context, id string) (*models.Part, error)

	CreatePart(ctx context.Context, in models.Part) (*models.Part, error)

	UpdatePart(ctx context.Context, p models.Part) (*models.Part, error)

	DeletePart(ctx context.Context, id string) (bool, error)

	// -------- Demo --------
	// SeedDemoData devolve true quando gravou alguma coleção.
	SeedDemoData(ctx context.Context) (bool, error)
}
