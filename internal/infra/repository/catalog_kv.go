package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/kvstore"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

// CatalogKVRepository guarda clientes, máquinas e peças como três arrays
// JSON no kvstore. Toda escrita relê a coleção inteira e regrava o array.
type CatalogKVRepository struct {
	store kvstore.Store
	log   *zap.Logger

	// serializa os ciclos ler-modificar-gravar deste processo
	mu sync.Mutex

	now   func() time.Time
	newID func() string

	clients  collection[models.Client]
	machines collection[models.Machine]
	parts    collection[models.Part]
}

type Option func(*CatalogKVRepository)

func WithClock(now func() time.Time) Option {
	return func(r *CatalogKVRepository) { r.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(r *CatalogKVRepository) { r.newID = newID }
}

func NewCatalogKVRepository(
	store kvstore.Store,
	log *zap.Logger,
	opts ...Option,
) *CatalogKVRepository {

	r := &CatalogKVRepository{
		store:    store,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
		clients:  collection[models.Client]{store: store, key: KeyClients},
		machines: collection[models.Machine]{store: store, key: KeyMachines},
		parts:    collection[models.Part]{store: store, key: KeyParts},
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *CatalogKVRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := r.clients.load(ctx)
	if err != nil {
		r.log.Error("erro ao obter clientes", zap.Error(err))
		return nil, err
	}
	return clients, nil
}

func (r *CatalogKVRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	clients, err := r.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(clients, func(c models.Client) bool { return c.ID == id })
	if idx == -1 {
		return nil, domain.ErrClientNotFound()
	}
	return &clients[idx], nil
}

func (r *CatalogKVRepository) CreateClient(
	ctx context.Context,
	in models.Client,
) (*models.Client, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.clients.load(ctx)
	if err != nil {
		r.log.Error("erro ao adicionar cliente", zap.Error(err))
		return nil, err
	}

	in.ID = r.newID()
	in.CreatedAt = r.now().UTC()
	in.UpdatedAt = nil

	if err := r.clients.save(ctx, append(clients, in)); err != nil {
		r.log.Error("erro ao adicionar cliente", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	return &in, nil
}

func (r *CatalogKVRepository) UpdateClient(
	ctx context.Context,
	c models.Client,
) (*models.Client, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.clients.load(ctx)
	if err != nil {
		r.log.Error("erro ao atualizar cliente", zap.String("id", c.ID), zap.Error(err))
		return nil, err
	}

	idx := slices.IndexFunc(clients, func(x models.Client) bool { return x.ID == c.ID })
	if idx == -1 {
		return nil, domain.ErrClientNotFound()
	}

	stored := clients[idx]
	c.CreatedAt = stored.CreatedAt
	stamp := r.updateStamp(stored.CreatedAt, stored.UpdatedAt)
	c.UpdatedAt = &stamp
	clients[idx] = c

	if err := r.clients.save(ctx, clients); err != nil {
		r.log.Error("erro ao atualizar cliente", zap.String("id", c.ID), zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *CatalogKVRepository) DeleteClient(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.clients.load(ctx)
	if err != nil {
		r.log.Error("erro ao excluir cliente", zap.String("id", id), zap.Error(err))
		return false, err
	}

	keptClients, removed := without(clients, func(c models.Client) bool { return c.ID == id })
	if len(removed) == 0 {
		return false, nil
	}

	machines, err := r.machines.load(ctx)
	if err != nil {
		r.log.Error("erro ao excluir cliente", zap.String("id", id), zap.Error(err))
		return false, err
	}
	parts, err := r.parts.load(ctx)
	if err != nil {
		r.log.Error("erro ao excluir cliente", zap.String("id", id), zap.Error(err))
		return false, err
	}

	keptMachines, removedMachines := without(machines, func(m models.Machine) bool {
		return m.ClientID == id
	})

	gone := make(map[string]struct{}, len(removedMachines))
	for _, m := range removedMachines {
		gone[m.ID] = struct{}{}
	}
	keptParts, removedParts := without(parts, func(p models.Part) bool {
		_, ok := gone[p.MachineID]
		return ok
	})

	entries := map[string]string{}

	raw, err := r.clients.encode(keptClients)
	if err != nil {
		return false, err
	}
	entries[KeyClients] = raw

	if len(removedMachines) > 0 {
		if raw, err = r.machines.encode(keptMachines); err != nil {
			return false, err
		}
		entries[KeyMachines] = raw
	}
	if len(removedParts) > 0 {
		if raw, err = r.parts.encode(keptParts); err != nil {
			return false, err
		}
		entries[KeyParts] = raw
	}

	if err := r.commit(ctx, entries); err != nil {
		r.log.Error("erro ao excluir cliente", zap.String("id", id), zap.Error(err))
		return false, err
	}

	r.log.Debug("cliente excluído",
		zap.String("id", id),
		zap.Int("maquinas", len(removedMachines)),
		zap.Int("pecas", len(removedParts)),
	)
	return true, nil
}

// --------------------------------------------------
// Machine
// --------------------------------------------------

func (r *CatalogKVRepository) ListMachines(ctx context.Context) ([]models.Machine, error) {
	machines, err := r.machines.load(ctx)
	if err != nil {
		r.log.Error("erro ao obter máquinas", zap.Error(err))
		return nil, err
	}
	return machines, nil
}

func (r *CatalogKVRepository) ListMachinesByClient(
	ctx context.Context,
	clientID string,
) ([]models.Machine, error) {

	machines, err := r.ListMachines(ctx)
	if err != nil {
		return nil, err
	}
	return filter(machines, func(m models.Machine) bool { return m.ClientID == clientID }), nil
}

func (r *CatalogKVRepository) GetMachine(ctx context.Context, id string) (*models.Machine, error) {
	machines, err := r.ListMachines(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(machines, func(m models.Machine) bool { return m.ID == id })
	if idx == -1 {
		return nil, domain.ErrMachineNotFound()
	}
	return &machines[idx], nil
}

func (r *CatalogKVRepository) CreateMachine(
	ctx context.Context,
	in models.Machine,
) (*models.Machine, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	machines, err := r.machines.load(ctx)
	if err != nil {
		r.log.Error("erro ao adicionar máquina", zap.Error(err))
		return nil, err
	}

	in.ID = r.newID()
	in.CreatedAt = r.now().UTC()
	in.UpdatedAt = nil

	if err := r.machines.save(ctx, append(machines, in)); err != nil {
		r.log.Error("erro ao adicionar máquina", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	return &in, nil
}

func (r *CatalogKVRepository) UpdateMachine(
	ctx context.Context,
	m models.Machine,
) (*models.Machine, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	machines, err := r.machines.load(ctx)
	if err != nil {
		r.log.Error("erro ao atualizar máquina", zap.String("id", m.ID), zap.Error(err))
		return nil, err
	}

	idx := slices.IndexFunc(machines, func(x models.Machine) bool { return x.ID == m.ID })
	if idx == -1 {
		return nil, domain.ErrMachineNotFound()
	}

	stored := machines[idx]
	m.CreatedAt = stored.CreatedAt
	stamp := r.updateStamp(stored.CreatedAt, stored.UpdatedAt)
	m.UpdatedAt = &stamp
	machines[idx] = m

	if err := r.machines.save(ctx, machines); err != nil {
		r.log.Error("erro ao atualizar máquina", zap.String("id", m.ID), zap.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *CatalogKVRepository) DeleteMachine(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	machines, err := r.machines.load(ctx)
	if err != nil {
		r.log.Error("erro ao excluir máquina", zap.String("id", id), zap.Error(err))
		return false, err
	}

	keptMachines, removed := without(machines, func(m models.Machine) bool { return m.ID == id })
	if len(removed) == 0 {
		return false, nil
	}

	parts, err := r.parts.load(ctx)
	if err != nil {
		r.log.Error("erro ao excluir máquina", zap.String("id", id), zap.Error(err))
		return false, err
	}
	keptParts, removedParts := without(parts, func(p models.Part) bool { return p.MachineID == id })

	entries := map[string]string{}

	raw, err := r.machines.encode(keptMachines)
	if err != nil {
		return false, err
	}
	entries[KeyMachines] = raw

	if len(removedParts) > 0 {
		if raw, err = r.parts.encode(keptParts); err != nil {
			return false, err
		}
		entries[KeyParts] = raw
	}

	if err := r.commit(ctx, entries); err != nil {
		r.log.Error("erro ao excluir máquina", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return true, nil
}

// --------------------------------------------------
// Part
// --------------------------------------------------

func (r *CatalogKVRepository) ListParts(ctx context.Context) ([]models.Part, error) {
	parts, err := r.parts.load(ctx)
	if err != nil {
		r.log.Error("erro ao obter peças", zap.Error(err))
		return nil, err
	}
	return parts, nil
}

func (r *CatalogKVRepository) ListPartsByMachine(
	ctx context.Context,
	machineID string,
) ([]models.Part, error) {

	parts, err := r.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	return filter(parts, func(p models.Part) bool { return p.MachineID == machineID }), nil
}

func (r *CatalogKVRepository) GetPart(ctx context.Context, id string) (*models.Part, error) {
	parts, err := r.ListParts(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(parts, func(p models.Part) bool { return p.ID == id })
	if idx == -1 {
		return nil, domain.ErrPartNotFound()
	}
	return &parts[idx], nil
}

func (r *CatalogKVRepository) CreatePart(
	ctx context.Context,
	in models.Part,
) (*models.Part, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	parts, err := r.parts.load(ctx)
	if err != nil {
		r.log.Error("erro ao adicionar peça", zap.Error(err))
		return nil, err
	}

	in.ID = r.newID()
	in.CreatedAt = r.now().UTC()
	in.UpdatedAt = nil

	if err := r.parts.save(ctx, append(parts, in)); err != nil {
		r.log.Error("erro ao adicionar peça", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	return &in, nil
}

func (r *CatalogKVRepository) UpdatePart(
	ctx context.Context,
	p models.Part,
) (*models.Part, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	parts, err := r.parts.load(ctx)
	if err != nil {
		r.log.Error("erro ao atualizar peça", zap.String("id", p.ID), zap.Error(err))
		return nil, err
	}

	idx := slices.IndexFunc(parts, func(x models.Part) bool { return x.ID == p.ID })
	if idx == -1 {
		return nil, domain.ErrPartNotFound()
	}

	stored := parts[idx]
	p.CreatedAt = stored.CreatedAt
	stamp := r.updateStamp(stored.CreatedAt, stored.UpdatedAt)
	p.UpdatedAt = &stamp
	parts[idx] = p

	if err := r.parts.save(ctx, parts); err != nil {
		r.log.Error("erro ao atualizar peça", zap.String("id", p.ID), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *CatalogKVRepository) DeletePart(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	parts, err := r.parts.load(ctx)
	if err != nil {
		r.log.Error("erro ao excluir peça", zap.String("id", id), zap.Error(err))
		return false, err
	}

	kept, removed := without(parts, func(p models.Part) bool { return p.ID == id })
	if len(removed) == 0 {
		return false, nil
	}

	if err := r.parts.save(ctx, kept); err != nil {
		r.log.Error("erro ao excluir peça", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return true, nil
}

// --------------------------------------------------
// Demo data
// --------------------------------------------------

// SeedDemoData grava os dados de demonstração nas coleções que estiverem vazias.
// seeded indica se alguma coleção foi gravada.
func (r *CatalogKVRepository) SeedDemoData(ctx context.Context) (seeded bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()

	clients, err := r.clients.load(ctx)
	if err != nil {
		return seeded, fmt.Errorf("seed clientes: %w", err)
	}
	if len(clients) == 0 {
		seed := []models.Client{
			{
				ID:        "1",
				Name:      "Hospital São Lucas",
				Phone:     "(81) 99999-9999",
				Address:   "Rua testando, 123",
				Email:     "hospitalsaolucas@gmail.com",
				CreatedAt: now,
			},
			{
				ID:        "2",
				Name:      "Indústria Metalúrgica",
				Phone:     "(81) 98888-8888",
				Address:   "Av. Industrial, 456",
				CreatedAt: now,
			},
		}
		if err := r.clients.save(ctx, seed); err != nil {
			return seeded, fmt.Errorf("seed clientes: %w", err)
		}
		seeded = true
		r.log.Info("clientes de demonstração criados", zap.Int("total", len(seed)))
	}

	machines, err := r.machines.load(ctx)
	if err != nil {
		return seeded, fmt.Errorf("seed máquinas: %w", err)
	}
	if len(machines) == 0 {
		seed := []models.Machine{
			{
				ID:              "1",
				ClientID:        "1",
				Name:            "Máquina de Lavar",
				Model:           "ML-2023",
				LastMaintenance: "15/03/2023",
				CreatedAt:       now,
			},
		}
		if err := r.machines.save(ctx, seed); err != nil {
			return seeded, fmt.Errorf("seed máquinas: %w", err)
		}
		seeded = true
		r.log.Info("máquinas de demonstração criadas", zap.Int("total", len(seed)))
	}

	return seeded, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

// updateStamp devolve "agora", empurrado para depois de qualquer carimbo anterior
// do registro (relógios com resolução grossa ou que andaram para trás).
func (r *CatalogKVRepository) updateStamp(createdAt time.Time, updatedAt *time.Time) time.Time {
	latest := createdAt
	if updatedAt != nil && updatedAt.After(latest) {
		latest = *updatedAt
	}

	now := r.now().UTC()
	if !now.After(latest) {
		now = latest.Add(time.Nanosecond).UTC()
	}
	return now
}

// commit grava a exclusão e suas cascatas numa única operação atômica.
func (r *CatalogKVRepository) commit(ctx context.Context, entries map[string]string) error {
	if err := r.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("%w: cascade write: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*CatalogKVRepository)(nil)
