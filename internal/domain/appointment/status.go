package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
)

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado.
// CANCELED é terminal: reagendar cria um novo registro.
func CanCancel(current Status) error {
	switch current {
	case StatusConfirmed:
		return nil
	case StatusCanceled:
		return ErrAlreadyCanceled
	default:
		return ErrAppointmentNotFound
	}
}

// InitialStatus é sempre CONFIRMED.
func InitialStatus() Status {
	return StatusConfirmed
}
