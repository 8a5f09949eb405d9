package appointment

import "time"

type MembershipState string

const (
	MembershipNone              MembershipState = "none"
	MembershipPurchasedInactive MembershipState = "purchased_inactive"
	MembershipActivated         MembershipState = "activated"
	MembershipExpired           MembershipState = "expired"
)

// AllowsBooking: activated e purchased_inactive podem reservar.
// purchased_inactive é regra de negócio (aluno ainda não ativou o cartão).
func (s MembershipState) AllowsBooking() bool {
	return s == MembershipActivated || s == MembershipPurchasedInactive
}

type Membership struct {
	UserID    int             `json:"user_id"`
	State     MembershipState `json:"state"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}
