package eligibility

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

// Gate decide se o usuário pode reservar.
type Gate struct {
	directory domain.MembershipDirectory
	timeout   time.Duration
}

func NewGate(directory domain.MembershipDirectory, timeout time.Duration) *Gate {
	return &Gate{directory: directory, timeout: timeout}
}

// Check devolve (true, "", nil) para plano válido e
// (false, MEMBERSHIP_EXPIRED, nil) caso contrário. Falha no diretório
// volta como err, nunca como "não elegível".
func (g *Gate) Check(ctx context.Context, userID int) (bool, domain.Reason, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	m, err := g.directory.GetActiveOrPendingMembership(ctx, userID)
	if err != nil {
		return false, "", fmt.Errorf("membership lookup for user %d: %w", userID, err)
	}
	if m == nil || !m.State.AllowsBooking() {
		return false, domain.ReasonMembershipExpired, nil
	}
	return true, "", nil
}
