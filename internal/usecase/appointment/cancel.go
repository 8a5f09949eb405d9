package appointment

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruksfildServices01/class-reservations/internal/bridge"
	"github.com/BruksfildServices01/class-reservations/internal/clock"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/logx"
	"github.com/BruksfildServices01/class-reservations/internal/obs"
)

type CancelAppointment struct {
	catalog  domain.Catalog
	ledger   domain.Ledger
	locker   domain.Locker
	notifier domain.ChangeNotifier
	clock    clock.Clock

	cutoff          time.Duration
	upstreamTimeout time.Duration
}

func NewCancelAppointment(
	catalog domain.Catalog,
	ledger domain.Ledger,
	locker domain.Locker,
	notifier domain.ChangeNotifier,
	clk clock.Clock,
	opts ...Option,
) *CancelAppointment {
	o := buildOptions(opts)
	return &CancelAppointment{
		catalog:         catalog,
		ledger:          ledger,
		locker:          locker,
		notifier:        notifier,
		clock:           clk,
		cutoff:          o.cutoff,
		upstreamTimeout: o.upstreamTimeout,
	}
}

// Execute cancela o agendamento do usuário. Erros de regra são
// domain.ErrorKind; use domain.KindOf para obter o código.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID int,
	appointmentID int,
) (err error) {

	ctx, span := obs.Tracer().Start(ctx, "appointment.cancel", trace.WithAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("appointment.id", appointmentID),
	))
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// --------------------------------------------------
	// 1️⃣ Agendamento (visão consolidada)
	// --------------------------------------------------
	ap, err := uc.ledger.Get(ctx, appointmentID, userID)
	if err != nil {
		return uc.upstream(ctx, "get", err)
	}
	if ap == nil {
		return domain.ErrAppointmentNotFound
	}
	if err := domain.CanCancel(ap.Status); err != nil {
		return err
	}

	// --------------------------------------------------
	// 2️⃣ Sessão via ponte
	// --------------------------------------------------
	cctx, cancel := context.WithTimeout(ctx, uc.upstreamTimeout)
	sessions, err := uc.catalog.GenerateSessions(cctx)
	cancel()
	if err != nil {
		return uc.upstream(ctx, "catalog", err)
	}

	session, ok := bridge.New(sessions).Resolve(ap.LegacyTimeslotID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	// --------------------------------------------------
	// 3️⃣ Janela de 24h
	// --------------------------------------------------
	now := uc.clock.Now()
	if session.StartsWithin(now, uc.cutoff) {
		return domain.ErrCannotCancelWithin24h
	}

	// --------------------------------------------------
	// 4️⃣ Lock do horário + releitura
	// --------------------------------------------------
	held, unlock, err := holdLock(ctx, uc.locker, ap.LegacyTimeslotID, uc.upstreamTimeout)
	if err != nil {
		return uc.upstream(ctx, "lock", err)
	}
	defer unlock()
	ctx = held

	ap, err = uc.ledger.Get(ctx, appointmentID, userID)
	if err != nil {
		return uc.upstream(ctx, "get", err)
	}
	if ap == nil {
		return domain.ErrAppointmentNotFound
	}
	if err := domain.CanCancel(ap.Status); err != nil {
		return err
	}

	canceled, err := uc.ledger.Cancel(ctx, appointmentID, userID, now)
	if err != nil {
		return uc.upstream(ctx, "append", err)
	}
	if !canceled {
		// outra instância cancelou entre a releitura e o append
		return domain.ErrAlreadyCanceled
	}

	uc.notifier.BookingsChanged(domain.ChangeEvent{
		Type:             domain.EventBookingCanceled,
		UserID:           userID,
		AppointmentID:    appointmentID,
		SessionID:        session.ID,
		LegacyTimeslotID: ap.LegacyTimeslotID,
		OccurredAt:       now,
	})

	logx.EventCtx(ctx, "reservation", "cancel", fmt.Sprintf("user=%d appointment=%d session=%s", userID, appointmentID, session.ID))
	return nil
}

func (uc *CancelAppointment) upstream(ctx context.Context, step string, err error) error {
	logx.EventCtx(ctx, "reservation", "cancel", fmt.Sprintf("%s failed: %v", step, err))
	return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, step, err)
}
