package appointment

import "errors"

// ErrorKind é uma falha de cancelamento. Comparável e pode ser embrulhado.
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

const (
	ErrAppointmentNotFound   ErrorKind = "APPOINTMENT_NOT_FOUND"
	ErrAlreadyCanceled       ErrorKind = "ALREADY_CANCELED"
	ErrSessionNotFound       ErrorKind = "SESSION_NOT_FOUND"
	ErrCannotCancelWithin24h ErrorKind = "CANNOT_CANCEL_WITHIN_24H"
	ErrUpstreamUnavailable   ErrorKind = "UPSTREAM_UNAVAILABLE"
)

// KindOf extrai o ErrorKind de err, se houver.
func KindOf(err error) (ErrorKind, bool) {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind, true
	}
	return "", false
}
