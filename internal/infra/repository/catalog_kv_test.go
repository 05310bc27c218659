package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
	"github.com/BruksfildServices01/oficina-maquinas/internal/kvstore"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func newSQLiteStore(t *testing.T) kvstore.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KVEntry{}))

	store := kvstore.NewGormStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestRepo(t *testing.T, opts ...Option) (*CatalogKVRepository, kvstore.Store) {
	t.Helper()
	store := newSQLiteStore(t)
	return NewCatalogKVRepository(store, zap.NewNop(), opts...), store
}

// flakyStore delega para um Store real e injeta falhas sob demanda.
type flakyStore struct {
	kvstore.Store

	mu          sync.Mutex
	failGet     bool
	failSetMany bool
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return "", fmt.Errorf("%w: conexão recusada", kvstore.ErrUnavailable)
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) SetMany(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	fail := s.failSetMany
	s.mu.Unlock()
	if fail {
		return errors.New("disco cheio")
	}
	return s.Store.SetMany(ctx, entries)
}

func rawValue(t *testing.T, store kvstore.Store, key string) string {
	t.Helper()
	v, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Client
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalog_CreateClient_EmptyCollection(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)

	created, err := repo.CreateClient(ctx, models.Client{
		Name:    "Hospital São Lucas",
		Phone:   "(81) 99999-9999",
		Address: "Rua X, 123",
	})
	require.NoError(t, err)

	clients, err = repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)

	got := clients[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Hospital São Lucas", got.Name)
	assert.Nil(t, got.UpdatedAt)

	assert.False(t, got.CreatedAt.IsZero())

	// formato gravado: array JSON com dataCadastro ISO-8601
	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(rawValue(t, store, KeyClients)), &stored))
	require.Len(t, stored, 1)
	ts, ok := stored[0]["dataCadastro"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
	assert.NotContains(t, stored[0], "dataAtualizacao")
	assert.NotContains(t, stored[0], "email")
}

func TestCatalog_CreateThenGet(t *testing.T) {
	fixed := time.Date(2024, 5, 10, 13, 0, 0, 123456789, time.UTC)
	repo, _ := newTestRepo(t,
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "cli-1" }),
	)
	ctx := context.Background()

	in := models.Client{
		ID:      "ignorado",
		Name:    "Indústria Metalúrgica",
		Phone:   "(81) 98888-8888",
		Address: "Av. Industrial, 456",
		Email:   "contato@metalurgica.com.br",
	}

	created, err := repo.CreateClient(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "cli-1", created.ID)

	got, err := repo.GetClient(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "cli-1", got.ID)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Phone, got.Phone)
	assert.Equal(t, in.Address, got.Address)
	assert.Equal(t, in.Email, got.Email)
	assert.True(t, fixed.Equal(got.CreatedAt), "dataCadastro = %v", got.CreatedAt)
	assert.Nil(t, got.UpdatedAt)
}

func TestCatalog_GetClient_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GetClient(context.Background(), "nao-existe")
	assert.True(t, domain.IsNotFound(err))
}

func TestCatalog_UpdateClient_StampsStrictlyLater(t *testing.T) {
	// relógio parado: o carimbo precisa avançar mesmo assim
	fixed := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repo, _ := newTestRepo(t, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	created, err := repo.CreateClient(ctx, models.Client{Name: "A", Phone: "(81) 1111-1111", Address: "Rua A"})
	require.NoError(t, err)

	upd := *created
	upd.Name = "A atualizado"
	first, err := repo.UpdateClient(ctx, upd)
	require.NoError(t, err)
	require.NotNil(t, first.UpdatedAt)
	assert.True(t, first.UpdatedAt.After(created.CreatedAt))

	second, err := repo.UpdateClient(ctx, *first)
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.After(*first.UpdatedAt))

	got, err := repo.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A atualizado", got.Name)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(*second.UpdatedAt))
}

func TestCatalog_UpdateClient_KeepsCreatedAt(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateClient(ctx, models.Client{Name: "B", Phone: "(81) 2222-2222", Address: "Rua B"})
	require.NoError(t, err)

	upd := *created
	upd.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = repo.UpdateClient(ctx, upd)
	require.NoError(t, err)

	got, err := repo.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCatalog_UpdateClient_UnknownLeavesBytesUnchanged(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateClient(ctx, models.Client{Name: "C", Phone: "(81) 3333-3333", Address: "Rua C"})
	require.NoError(t, err)
	before := rawValue(t, store, KeyClients)

	_, err = repo.UpdateClient(ctx, models.Client{ID: "fantasma", Name: "X"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeClientNotFound))

	assert.Equal(t, before, rawValue(t, store, KeyClients))
}

func TestCatalog_DeleteClient_Cascades(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	keep, err := repo.CreateClient(ctx, models.Client{Name: "Fica"})
	require.NoError(t, err)
	drop, err := repo.CreateClient(ctx, models.Client{Name: "Sai"})
	require.NoError(t, err)

	m1, err := repo.CreateMachine(ctx, models.Machine{ClientID: drop.ID, Name: "Autoclave"})
	require.NoError(t, err)
	m2, err := repo.CreateMachine(ctx, models.Machine{ClientID: keep.ID, Name: "Torno"})
	require.NoError(t, err)

	_, err = repo.CreatePart(ctx, models.Part{MachineID: m1.ID, Name: "Vedação", Quantity: 2})
	require.NoError(t, err)
	p2, err := repo.CreatePart(ctx, models.Part{MachineID: m2.ID, Name: "Correia", Quantity: 1})
	require.NoError(t, err)

	removed, err := repo.DeleteClient(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, keep.ID, clients[0].ID)

	machines, err := repo.ListMachines(ctx)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, m2.ID, machines[0].ID)

	parts, err := repo.ListParts(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, p2.ID, parts[0].ID)
}

func TestCatalog_DeleteClient_Twice(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	c, err := repo.CreateClient(ctx, models.Client{Name: "D"})
	require.NoError(t, err)
	_, err = repo.CreateClient(ctx, models.Client{Name: "E"})
	require.NoError(t, err)

	removed, err := repo.DeleteClient(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	after := rawValue(t, store, KeyClients)

	removed, err = repo.DeleteClient(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, after, rawValue(t, store, KeyClients))
}

func TestCatalog_DeleteClient_CascadeIsAtomic(t *testing.T) {
	flaky := &flakyStore{Store: newSQLiteStore(t)}
	repo := NewCatalogKVRepository(flaky, zap.NewNop())
	ctx := context.Background()

	c, err := repo.CreateClient(ctx, models.Client{Name: "F"})
	require.NoError(t, err)
	_, err = repo.CreateMachine(ctx, models.Machine{ClientID: c.ID, Name: "Centrífuga"})
	require.NoError(t, err)

	clientsBefore := rawValue(t, flaky, KeyClients)
	machinesBefore := rawValue(t, flaky, KeyMachines)

	flaky.failSetMany = true
	removed, err := repo.DeleteClient(ctx, c.ID)
	assert.False(t, removed)
	assert.True(t, domain.IsStorageUnavailable(err))

	assert.Equal(t, clientsBefore, rawValue(t, flaky, KeyClients))
	assert.Equal(t, machinesBefore, rawValue(t, flaky, KeyMachines))
}

// ─────────────────────────────────────────────────────────────────────────────
// Machine
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalog_ListMachinesByClient_PreservesOrder(t *testing.T) {
	ids := []string{"m-a", "m-b", "m-c"}
	next := 0
	repo, _ := newTestRepo(t, WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))
	ctx := context.Background()

	_, err := repo.CreateMachine(ctx, models.Machine{ClientID: "1", Name: "Primeira"})
	require.NoError(t, err)
	_, err = repo.CreateMachine(ctx, models.Machine{ClientID: "2", Name: "Outra"})
	require.NoError(t, err)
	_, err = repo.CreateMachine(ctx, models.Machine{ClientID: "1", Name: "Segunda"})
	require.NoError(t, err)

	got, err := repo.ListMachinesByClient(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m-a", got[0].ID)
	assert.Equal(t, "m-c", got[1].ID)

	none, err := repo.ListMachinesByClient(ctx, "3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_DeleteMachine_CascadesParts(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	m1, err := repo.CreateMachine(ctx, models.Machine{ClientID: "1", Name: "Lavadora"})
	require.NoError(t, err)
	m2, err := repo.CreateMachine(ctx, models.Machine{ClientID: "1", Name: "Secadora"})
	require.NoError(t, err)

	_, err = repo.CreatePart(ctx, models.Part{MachineID: m1.ID, Name: "Motor", Quantity: 1})
	require.NoError(t, err)
	_, err = repo.CreatePart(ctx, models.Part{MachineID: m1.ID, Name: "Bomba", Quantity: 3})
	require.NoError(t, err)
	keep, err := repo.CreatePart(ctx, models.Part{MachineID: m2.ID, Name: "Resistência", Quantity: 2})
	require.NoError(t, err)

	removed, err := repo.DeleteMachine(ctx, m1.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetMachine(ctx, m1.ID)
	assert.True(t, httperr.IsBusiness(err, domain.CodeMachineNotFound))

	parts, err := repo.ListParts(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, keep.ID, parts[0].ID)

	removed, err = repo.DeleteMachine(ctx, m1.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCatalog_UpdateMachine(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.CreateMachine(ctx, models.Machine{
		ClientID:        "1",
		Name:            "Máquina de Lavar",
		Model:           "ML-2023",
		LastMaintenance: "15/03/2023",
	})
	require.NoError(t, err)

	upd := *m
	upd.LastMaintenance = "20/08/2024"
	got, err := repo.UpdateMachine(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, "20/08/2024", got.LastMaintenance)
	assert.NotNil(t, got.UpdatedAt)

	before := rawValue(t, store, KeyMachines)
	_, err = repo.UpdateMachine(ctx, models.Machine{ID: "nenhuma"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeMachineNotFound))
	assert.Equal(t, before, rawValue(t, store, KeyMachines))
}

// ─────────────────────────────────────────────────────────────────────────────
// Part
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalog_Parts(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.CreatePart(ctx, models.Part{MachineID: "m1", Name: "Filtro", Model: "F-10", Quantity: 4})
	require.NoError(t, err)
	_, err = repo.CreatePart(ctx, models.Part{MachineID: "m2", Name: "Junta", Quantity: 1})
	require.NoError(t, err)

	byMachine, err := repo.ListPartsByMachine(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, byMachine, 1)
	assert.Equal(t, 4, byMachine[0].Quantity)

	upd := *p
	upd.Quantity = 9
	_, err = repo.UpdatePart(ctx, upd)
	require.NoError(t, err)

	got, err := repo.GetPart(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Quantity)

	before := rawValue(t, store, KeyParts)
	_, err = repo.UpdatePart(ctx, models.Part{ID: "sumiu"})
	assert.True(t, httperr.IsBusiness(err, domain.CodePartNotFound))
	assert.Equal(t, before, rawValue(t, store, KeyParts))

	removed, err := repo.DeletePart(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeletePart(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.GetPart(ctx, p.ID)
	assert.True(t, domain.IsNotFound(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Storage failures
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalog_CorruptCollection(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyClients, `{isto não é json`))

	_, err := repo.ListClients(ctx)
	assert.True(t, domain.IsCorrupt(err))

	_, err = repo.CreateClient(ctx, models.Client{Name: "G"})
	assert.True(t, domain.IsCorrupt(err))

	// nada foi sobrescrito
	assert.Equal(t, `{isto não é json`, rawValue(t, store, KeyClients))
}

func TestCatalog_NullCollectionIsEmpty(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyParts, `null`))

	parts, err := repo.ListParts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, parts)
	assert.Empty(t, parts)
}

func TestCatalog_StorageUnavailable(t *testing.T) {
	flaky := &flakyStore{Store: newSQLiteStore(t), failGet: true}
	repo := NewCatalogKVRepository(flaky, zap.NewNop())
	ctx := context.Background()

	_, err := repo.ListMachines(ctx)
	assert.True(t, domain.IsStorageUnavailable(err))
	assert.True(t, kvstore.IsUnavailable(err))

	_, err = repo.GetPart(ctx, "x")
	assert.True(t, domain.IsStorageUnavailable(err))
	assert.False(t, domain.IsNotFound(err))

	removed, err := repo.DeleteClient(ctx, "1")
	assert.False(t, removed)
	assert.True(t, domain.IsStorageUnavailable(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Concurrency
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalog_ConcurrentCreatesDoNotLoseUpdates(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreatePart(ctx, models.Part{MachineID: "m1", Name: fmt.Sprintf("peça %d", i), Quantity: 1})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	parts, err := repo.ListParts(ctx)
	require.NoError(t, err)
	assert.Len(t, parts, n)

	seen := map[string]bool{}
	for _, p := range parts {
		assert.False(t, seen[p.ID], "id duplicado %s", p.ID)
		seen[p.ID] = true
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Seed
// ─────────────────────────────────────────────────────────────────────────────

func TestCatalog_SeedDemoData(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	seeded, err := repo.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Hospital São Lucas", clients[0].Name)
	assert.Equal(t, "hospitalsaolucas@gmail.com", clients[0].Email)
	assert.Empty(t, clients[1].Email)

	machines, err := repo.ListMachinesByClient(ctx, "1")
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, "15/03/2023", machines[0].LastMaintenance)

	// segunda chamada não mexe em nada
	before := rawValue(t, store, KeyClients)
	seeded, err = repo.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, before, rawValue(t, store, KeyClients))
}

func TestCatalog_SeedDemoData_PerCollection(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateClient(ctx, models.Client{Name: "Já existe"})
	require.NoError(t, err)

	seeded, err := repo.SeedDemoData(ctx)
	require.NoError(t, err)
	assert.True(t, seeded, "máquinas ainda vazias")

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	machines, err := repo.ListMachines(ctx)
	require.NoError(t, err)
	assert.Len(t, machines, 1)
}
