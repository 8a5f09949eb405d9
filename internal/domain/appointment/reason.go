package appointment

// Reason explica por que uma sessão do lote não foi reservada.
type Reason string

const (
	ReasonMembershipExpired   Reason = "MEMBERSHIP_EXPIRED"
	ReasonWithin24h           Reason = "WITHIN_24H"
	ReasonNotFound            Reason = "NOT_FOUND"
	ReasonAtCapacity          Reason = "AT_CAPACITY"
	ReasonAlreadyBooked       Reason = "ALREADY_BOOKED"
	ReasonUpstreamUnavailable Reason = "UPSTREAM_UNAVAILABLE"

	// Deprecated: ReasonFull é o antigo código único para NOT_FOUND,
	// AT_CAPACITY e ALREADY_BOOKED. Só sai via Legacy.
	ReasonFull Reason = "FULL"
)

// Legacy converte para o código que as telas antigas entendem.
func (r Reason) Legacy() Reason {
	switch r {
	case ReasonNotFound, ReasonAtCapacity, ReasonAlreadyBooked:
		return ReasonFull
	default:
		return r
	}
}
