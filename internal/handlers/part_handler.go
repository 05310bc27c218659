package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httpresp"
	"github.com/BruksfildServices01/oficina-maquinas/internal/middleware"
	uc "github.com/BruksfildServices01/oficina-maquinas/internal/usecase/catalog"
)

type PartHandler struct {
	parts *uc.Parts
}

func NewPartHandler(parts *uc.Parts) *PartHandler {
	return &PartHandler{parts: parts}
}

// Quantidade ausente ou zero vira 1.
type PartRequest struct {
	Nome       string `json:"nome" binding:"notblank"`
	Modelo     string `json:"modelo"`
	Quantidade int    `json:"quantidade" binding:"gte=0"`
}

func (r PartRequest) input() uc.PartInput {
	return uc.PartInput{
		Name:     r.Nome,
		Model:    r.Modelo,
		Quantity: r.Quantidade,
	}
}

func (h *PartHandler) List(c *gin.Context) {
	parts, err := h.parts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, parts)
}

func (h *PartHandler) Get(c *gin.Context) {
	part, err := h.parts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, part)
}

func (h *PartHandler) Update(c *gin.Context) {
	var req PartRequest
	if !bindJSON(c, &req) {
		return
	}

	part, err := h.parts.Update(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
		req.input(),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, part)
}

func (h *PartHandler) Delete(c *gin.Context) {
	removed, err := h.parts.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		writeError(c, domain.ErrPartNotFound())
		return
	}

	httpresp.NoContent(c)
}
