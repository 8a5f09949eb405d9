package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

// legacyRecord é uma entrada do antigo appointments.json.
type legacyRecord struct {
	ID         int        `json:"id"`
	TimeslotID int        `json:"timeslotId"`
	UserID     int        `json:"userId"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	CanceledAt *time.Time `json:"canceledAt"`
}

func normalizeStatus(s string) (domain.Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONFIRMED", "BOOKED", "SCHEDULED":
		return domain.StatusConfirmed, nil
	case "CANCELED", "CANCELLED":
		return domain.StatusCanceled, nil
	default:
		return "", fmt.Errorf("unknown legacy status %q", s)
	}
}

// ImportLegacy carrega o array JSON legado no store em memória e ajusta o
// contador de ids. Registros já presentes são ignorados.
func ImportLegacy(ctx context.Context, l *Ledger, r io.Reader) (int, error) {
	var records []legacyRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode legacy appointments: %w", err)
	}

	imported := 0
	for i, rec := range records {
		status, err := normalizeStatus(rec.Status)
		if err != nil {
			return imported, fmt.Errorf("legacy record %d: %w", i, err)
		}
		if rec.ID <= 0 || rec.UserID <= 0 {
			return imported, fmt.Errorf("legacy record %d: missing id or user", i)
		}

		ap := domain.Appointment{
			ID:               rec.ID,
			LegacyTimeslotID: rec.TimeslotID,
			UserID:           rec.UserID,
			Status:           status,
			CreatedAt:        rec.CreatedAt,
			CanceledAt:       rec.CanceledAt,
		}

		if err := l.mem.Append(ctx, ap); err != nil {
			if errors.Is(err, ErrDuplicateID) {
				continue
			}
			return imported, err
		}
		imported++
	}

	if err := l.reseed(ctx); err != nil {
		return imported, err
	}
	return imported, nil
}
