package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/ledger"
	"github.com/BruksfildServices01/class-reservations/internal/models"
)

// AppointmentGormRepository é o store persistido do ledger: a tabela
// appointment_log só recebe INSERT.
type AppointmentGormRepository struct {
	db *gorm.DB
}

var _ ledger.Store = (*AppointmentGormRepository)(nil)

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Append
// --------------------------------------------------

func (r *AppointmentGormRepository) Append(
	ctx context.Context,
	rec domain.Appointment,
) error {

	row := models.AppointmentRecord{
		AppointmentID:    rec.ID,
		LegacyTimeslotID: rec.LegacyTimeslotID,
		UserID:           rec.UserID,
		Status:           string(rec.Status),
		CreatedAt:        rec.CreatedAt,
		CanceledAt:       rec.CanceledAt,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateID
		}
		return err
	}
	return nil
}

// --------------------------------------------------
// Scan
// --------------------------------------------------

func (r *AppointmentGormRepository) Scan(
	ctx context.Context,
) ([]domain.Appointment, error) {

	var rows []models.AppointmentRecord
	if err := r.db.WithContext(ctx).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Appointment{
			ID:               row.AppointmentID,
			LegacyTimeslotID: row.LegacyTimeslotID,
			UserID:           row.UserID,
			Status:           domain.Status(row.Status),
			CreatedAt:        row.CreatedAt,
			CanceledAt:       row.CanceledAt,
		})
	}
	return out, nil
}

// gorm traduz o erro quando TranslateError está ligado; sem isso,
// olhamos o código do postgres direto.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
