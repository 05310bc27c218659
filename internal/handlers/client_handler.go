package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httpresp"
	"github.com/BruksfildServices01/oficina-maquinas/internal/middleware"
	uc "github.com/BruksfildServices01/oficina-maquinas/internal/usecase/catalog"
)

type ClientHandler struct {
	clients  *uc.Clients
	machines *uc.Machines
}

func NewClientHandler(clients *uc.Clients, machines *uc.Machines) *ClientHandler {
	return &ClientHandler{clients: clients, machines: machines}
}

type ClientRequest struct {
	Nome     string `json:"nome" binding:"notblank"`
	Telefone string `json:"telefone" binding:"notblank,telefone"`
	Endereco string `json:"endereco" binding:"notblank"`
	Email    string `json:"email" binding:"emailopcional"`
}

func (r ClientRequest) input() uc.ClientInput {
	return uc.ClientInput{
		Name:    r.Nome,
		Phone:   r.Telefone,
		Address: r.Endereco,
		Email:   r.Email,
	}
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context(), c.Query("query"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clients.Create(c.Request.Context(), middleware.CurrentUser(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clients.Update(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
		req.input(),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, client)
}

// Delete remove o cliente junto com as máquinas e peças dele.
func (h *ClientHandler) Delete(c *gin.Context) {
	removed, err := h.clients.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		writeError(c, domain.ErrClientNotFound())
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// MÁQUINAS DO CLIENTE
// ======================================================

func (h *ClientHandler) ListMachines(c *gin.Context) {
	machines, err := h.machines.ListByClient(c.Request.Context(), c.Param("id"), c.Query("query"))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, machines)
}

func (h *ClientHandler) CreateMachine(c *gin.Context) {
	var req MachineRequest
	if !bindJSON(c, &req) {
		return
	}

	machine, err := h.machines.Create(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("id"),
		req.input(),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, machine)
}
