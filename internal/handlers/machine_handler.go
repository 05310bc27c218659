package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httpresp"
	"github.com/BruksfildServices01/oficina-maquinas/internal/middleware"
	uc "github.com/BruksfildServices01/oficina-maquinas/internal/usecase/catalog"
)

type MachineHandler struct {
	machines *uc.Machines
	parts    *uc.Parts
}

func NewMachineHandler(machines *uc.Machines, parts *uc.Parts) *MachineHandler {
	return &MachineHandler{machines: machines, parts: parts}
}

type MachineRequest struct {
	Nome             string `json:"nome" binding:"notblank"`
	Modelo           string `json:"modelo" binding:"notblank"`
	UltimaManutencao string `json:"ultimaManutencao" binding:"notblank"`
}

func (r MachineRequest) input() uc.MachineInput {
	return uc.MachineInput{
		Name:            r.Nome,
		Model:           r.Modelo,
		LastMaintenance: r.UltimaManutencao,
	}
}

func (h *MachineHandler) List(c *gin.Context) {
	machines, err := h.machines.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, machines)
}

func (h *MachineHandler) Get(c *gin.Context) {
	machine, err := h.machines.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, machine)
}

// Update mantém o clienteId da máquina.
func (h *MachineHandler) Update(c *gin.Context) {
	var req MachineRequest
	if !bindJSON(c, &req) {
		return
	}

	machine, err := h.machines.Update(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
		req.input(),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, machine)
}

func (h *MachineHandler) Delete(c *gin.Context) {
	removed, err := h.machines.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		writeError(c, domain.ErrMachineNotFound())
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// PEÇAS DA MÁQUINA
// ======================================================

func (h *MachineHandler) ListParts(c *gin.Context) {
	parts, err := h.parts.ListByMachine(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, parts)
}

func (h *MachineHandler) CreatePart(c *gin.Context) {
	var req PartRequest
	if !bindJSON(c, &req) {
		return
	}

	part, err := h.parts.Create(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
		req.input(),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, part)
}
