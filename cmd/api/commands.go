package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oficina-maquinas/internal/audit"
	"github.com/BruksfildServices01/oficina-maquinas/internal/backup"
	"github.com/BruksfildServices01/oficina-maquinas/internal/config"
	dbpkg "github.com/BruksfildServices01/oficina-maquinas/internal/db"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/handlers"
	"github.com/BruksfildServices01/oficina-maquinas/internal/infra/repository"
	"github.com/BruksfildServices01/oficina-maquinas/internal/kvstore"
	"github.com/BruksfildServices01/oficina-maquinas/internal/logging"
	"github.com/BruksfildServices01/oficina-maquinas/internal/routes"
	ucCatalog "github.com/BruksfildServices01/oficina-maquinas/internal/usecase/catalog"
)

const shutdownTimeout = 10 * time.Second

// app reúne o que os três comandos compartilham.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store kvstore.Store
	db    *gorm.DB
	repo  domain.Repository
	audit *audit.Dispatcher
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, gdb, err := dbpkg.OpenStore(ctx, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	log.Info("armazenamento aberto", zap.String("driver", cfg.StorageDriver))

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		db:    gdb,
		repo:  repository.NewCatalogKVRepository(store, log.Named("catalog")),
		audit: audit.NewDispatcher(audit.New(gdb, log.Named("audit")), log),
	}, nil
}

// close drena a auditoria antes de fechar o armazenamento.
func (a *app) close() {
	a.audit.Close()
	if err := a.store.Close(); err != nil {
		a.log.Warn("erro ao fechar armazenamento", zap.Error(err))
	}
	_ = a.log.Sync()
}

// ======================================================
// SERVE
// ======================================================

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.SeedDemoData {
		if err := ucCatalog.NewSeedDemoData(a.repo, a.audit).Execute(ctx, "system"); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	var exporter handlers.SnapshotExporter
	switch exp, err := backup.FromConfig(a.cfg, a.repo, a.log.Named("backup")); {
	case errors.Is(err, backup.ErrDisabled):
		a.log.Info("backup desabilitado")
	case err != nil:
		return err
	default:
		exporter = exp
	}

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config: a.cfg,
		Log:    a.log.Named("http"),
		Repo:   a.repo,
		Audit:  a.audit,
		DB:     a.db,
		Backup: exporter,
	})

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ======================================================
// SEED
// ======================================================

func runSeed(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := ucCatalog.NewSeedDemoData(a.repo, a.audit).Execute(cmd.Context(), "cli"); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "dados de demonstração gravados")
	return nil
}

// ======================================================
// BACKUP
// ======================================================

func runBackup(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	exp, err := backup.FromConfig(a.cfg, a.repo, a.log.Named("backup"))
	if err != nil {
		return err
	}

	key, err := exp.Export(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", a.cfg.S3Bucket, key)
	return nil
}
