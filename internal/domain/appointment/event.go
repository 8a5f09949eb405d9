package appointment

import "time"

const (
	EventBookingCreated  = "booking.created"
	EventBookingCanceled = "booking.cancelled"
)

// ChangeEvent é o aviso de "reservas mudaram", enviado depois de uma
// reserva ou cancelamento.
type ChangeEvent struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	UserID           int       `json:"user_id"`
	AppointmentID    int       `json:"appointment_id"`
	SessionID        string    `json:"session_id,omitempty"`
	LegacyTimeslotID int       `json:"legacy_timeslot_id"`
	OccurredAt       time.Time `json:"occurred_at"`
}
