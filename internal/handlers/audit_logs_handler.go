package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
	"github.com/BruksfildServices01/oficina-maquinas/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

// AuditLogsHandler só existe com banco relacional; no redis a trilha
// fica apenas no log estruturado.
type AuditLogsHandler struct {
	db *gorm.DB
	tz string
}

func NewAuditLogsHandler(db *gorm.DB, tz string) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, tz: tz}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	actor := c.Query("actor")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	filters := func(q *gorm.DB) *gorm.DB {
		if action != "" {
			q = q.Where("action = ?", action)
		}
		if entity != "" {
			q = q.Where("entity = ?", entity)
		}
		if actor != "" {
			q = q.Where("actor = ?", actor)
		}

		// datas no fuso da oficina
		if fromStr != "" {
			if from, err := timezone.ParseDay(h.tz, fromStr); err == nil {
				q = q.Where("created_at >= ?", from)
			}
		}
		if toStr != "" {
			if _, end, err := timezone.DayRange(h.tz, toStr); err == nil {
				q = q.Where("created_at < ?", end)
			}
		}
		return q
	}

	var total int64
	if err := h.db.Model(&models.AuditLog{}).Scopes(filters).Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := h.db.
		Scopes(filters).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
