package appointment

import "time"

// Appointment é um registro do log de reservas. Vários registros podem ter
// o mesmo (ID, UserID); a visão consolidada fica com o que vence (Supersedes).
type Appointment struct {
	ID               int        `json:"id"`
	LegacyTimeslotID int        `json:"legacy_timeslot_id"`
	UserID           int        `json:"user_id"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CanceledAt       *time.Time `json:"canceled_at,omitempty"`
}

// ===============================
// Domain Actions
// ===============================

// Cancel devolve o registro CANCELED que substitui ap. O original não
// é alterado.
func Cancel(ap Appointment, now time.Time) (Appointment, error) {
	if err := CanCancel(ap.Status); err != nil {
		return Appointment{}, err
	}

	canceled := ap
	canceled.Status = StatusCanceled
	canceled.CanceledAt = &now
	return canceled, nil
}

// Supersedes diz se a vence b para o mesmo (ID, UserID): CANCELED vence
// CONFIRMED, senão vence o CreatedAt mais recente.
func Supersedes(a, b Appointment) bool {
	if a.Status != b.Status {
		return a.Status == StatusCanceled
	}
	return a.CreatedAt.After(b.CreatedAt)
}
