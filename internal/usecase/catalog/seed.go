package catalog

import (
	"context"

	"github.com/BruksfildServices01/oficina-maquinas/internal/audit"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
)

type SeedDemoData struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSeedDemoData(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SeedDemoData {
	return &SeedDemoData{
		repo:  repo,
		audit: audit,
	}
}

// Execute só audita quando algo foi gravado.
func (uc *SeedDemoData) Execute(ctx context.Context, actor string) error {
	seeded, err := uc.repo.SeedDemoData(ctx)
	if err != nil || !seeded {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:  actor,
		Action: "demo_data_seeded",
		Entity: "catalog",
	})

	return nil
}
