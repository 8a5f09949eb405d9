package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	ctx context.Context,
	userID *int,
	action string,
	entity string,
	entityID *int,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

// Publish grava o evento como uma linha de audit_logs.
func (l *Logger) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	userID := ev.UserID
	appointmentID := ev.AppointmentID

	return l.Log(
		ctx,
		&userID,
		ev.Type,
		"appointment",
		&appointmentID,
		map[string]any{
			"event_id":           ev.ID,
			"session_id":         ev.SessionID,
			"legacy_timeslot_id": ev.LegacyTimeslotID,
			"occurred_at":        ev.OccurredAt.Format(time.RFC3339),
		},
	)
}

// ListFilter filtra a listagem de audit_logs.
type ListFilter struct {
	Action string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Normalize aplica os limites de paginação (1..100 por página, padrão 20).
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
}

func (l *Logger) List(ctx context.Context, f ListFilter) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f.Normalize()

	var logs []models.AuditLog
	err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error

	return logs, total, err
}
