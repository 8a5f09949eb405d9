package appointment

import (
	"context"
	"time"
)

// -------- Catálogo de sessões --------

type Catalog interface {
	GenerateSessions(ctx context.Context) ([]Session, error)
}

// -------- Diretório de planos --------

type MembershipDirectory interface {
	// GetActiveOrPendingMembership devolve nil, nil quando o usuário não
	// tem plano que permita reservar.
	GetActiveOrPendingMembership(ctx context.Context, userID int) (*Membership, error)
}

type EligibilityChecker interface {
	Check(ctx context.Context, userID int) (eligible bool, reason Reason, err error)
}

// -------- Ledger de reservas --------

type Ledger interface {
	Exists(ctx context.Context, userID, legacyTimeslotID int) (bool, error)

	Append(ctx context.Context, ap Appointment) (int, error)

	// Get devolve nil, nil quando (id, userID) não existe.
	Get(ctx context.Context, id, userID int) (*Appointment, error)

	Cancel(ctx context.Context, id, userID int, now time.Time) (bool, error)

	CountConfirmed(ctx context.Context, legacyTimeslotID int) (int, error)

	ListByUser(ctx context.Context, userID int) ([]Appointment, error)

	ListAll(ctx context.Context) ([]Appointment, error)
}

// -------- Concorrência --------

// Locker serializa o trabalho num id legado de horário.
type Locker interface {
	Lock(ctx context.Context, key int) (unlock func(), err error)
}

// -------- Notificação --------

// ChangeNotifier não pode bloquear quem chama.
type ChangeNotifier interface {
	BookingsChanged(ev ChangeEvent)
}
