package audit

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

// Logger grava o evento no log estruturado e, havendo banco relacional,
// também na tabela audit_logs.
type Logger struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Logger {
	return &Logger{db: db, log: log}
}

func (l *Logger) Log(ev Event) error {

	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	l.log.Info("audit",
		zap.String("actor", ev.Actor),
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("entity_id", ev.EntityID),
		zap.String("metadata", metaJSON),
	)

	if l.db == nil {
		return nil
	}

	row := models.AuditLog{
		Actor:    ev.Actor,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return l.db.Create(&row).Error
}
