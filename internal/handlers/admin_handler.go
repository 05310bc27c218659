package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
	"github.com/BruksfildServices01/oficina-maquinas/internal/middleware"
	uc "github.com/BruksfildServices01/oficina-maquinas/internal/usecase/catalog"
)

// SnapshotExporter envia uma cópia das coleções para fora do processo.
type SnapshotExporter interface {
	Export(ctx context.Context) (string, error)
}

type AdminHandler struct {
	seed     *uc.SeedDemoData
	exporter SnapshotExporter
}

// exporter pode ser nil quando o backup não está configurado.
func NewAdminHandler(seed *uc.SeedDemoData, exporter SnapshotExporter) *AdminHandler {
	return &AdminHandler{seed: seed, exporter: exporter}
}

// Seed preenche só as coleções vazias.
func (h *AdminHandler) Seed(c *gin.Context) {
	if err := h.seed.Execute(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) Backup(c *gin.Context) {
	if h.exporter == nil {
		httperr.Unavailable(c, "backup_disabled", "Backup não configurado.")
		return
	}

	key, err := h.exporter.Export(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		httperr.Write(c, http.StatusBadGateway, "backup_failed", "Não foi possível enviar o backup.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}
