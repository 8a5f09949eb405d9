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
	"github.com/BruksfildServices01/class-reservations/internal/httperr"
	"github.com/BruksfildServices01/class-reservations/internal/logx"
	"github.com/BruksfildServices01/class-reservations/internal/obs"
)

const (
	DefaultCutoff          = 24 * time.Hour
	DefaultUpstreamTimeout = 3 * time.Second

	// MaxBatchSize limita as sessões por pedido; acima disso o lote
	// inteiro é recusado com batch_too_large.
	MaxBatchSize = 50
)

// ======================================================
// OUTPUT
// ======================================================

type BookedSession struct {
	SessionID     string `json:"session_id"`
	AppointmentID int    `json:"appointment_id"`
}

type FailedSession struct {
	SessionID string        `json:"session_id"`
	Reason    domain.Reason `json:"reason"`
	// Code é o código antigo (FULL) para telas legadas.
	Code domain.Reason `json:"code"`
}

type BatchBookResult struct {
	Success []BookedSession `json:"success"`
	Failed  []FailedSession `json:"failed"`
}

func (r *BatchBookResult) fail(sessionID string, reason domain.Reason) {
	r.Failed = append(r.Failed, FailedSession{
		SessionID: sessionID,
		Reason:    reason,
		Code:      reason.Legacy(),
	})
}

// ======================================================
// USE CASE
// ======================================================

type BatchBook struct {
	gate     domain.EligibilityChecker
	catalog  domain.Catalog
	ledger   domain.Ledger
	locker   domain.Locker
	notifier domain.ChangeNotifier
	clock    clock.Clock

	cutoff          time.Duration
	upstreamTimeout time.Duration
}

type Option func(*options)

type options struct {
	cutoff          time.Duration
	upstreamTimeout time.Duration
}

func WithCutoff(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cutoff = d
		}
	}
}

func WithUpstreamTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.upstreamTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{cutoff: DefaultCutoff, upstreamTimeout: DefaultUpstreamTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// holdLock espera o lock do horário por no máximo timeout e devolve um ctx
// com o mesmo limite para a seção crítica. O limite precisa ficar abaixo do
// TTL do lock distribuído (ver config.Validate).
func holdLock(ctx context.Context, locker domain.Locker, key int, timeout time.Duration) (context.Context, func(), error) {
	lctx, cancel := context.WithTimeout(ctx, timeout)
	unlock, err := locker.Lock(lctx, key)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	held, release := context.WithTimeout(ctx, timeout)
	return held, func() {
		release()
		unlock()
	}, nil
}

func NewBatchBook(
	gate domain.EligibilityChecker,
	catalog domain.Catalog,
	ledger domain.Ledger,
	locker domain.Locker,
	notifier domain.ChangeNotifier,
	clk clock.Clock,
	opts ...Option,
) *BatchBook {
	o := buildOptions(opts)
	return &BatchBook{
		gate:            gate,
		catalog:         catalog,
		ledger:          ledger,
		locker:          locker,
		notifier:        notifier,
		clock:           clk,
		cutoff:          o.cutoff,
		upstreamTimeout: o.upstreamTimeout,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute tenta reservar cada sessão de forma independente. Sempre há
// exatamente um resultado por sessão pedida, na ordem do pedido.
func (uc *BatchBook) Execute(
	ctx context.Context,
	userID int,
	sessionIDs []string,
) (*BatchBookResult, error) {

	if userID <= 0 {
		return nil, httperr.ErrBusiness("invalid_user")
	}
	if len(sessionIDs) == 0 {
		return nil, httperr.ErrBusiness("session_ids_required")
	}
	if len(sessionIDs) > MaxBatchSize {
		return nil, httperr.ErrBusinessf("batch_too_large", "at most %d sessions per request, got %d", MaxBatchSize, len(sessionIDs))
	}

	ctx, span := obs.Tracer().Start(ctx, "appointment.batch_book", trace.WithAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("sessions.requested", len(sessionIDs)),
	))
	defer span.End()

	res := &BatchBookResult{
		Success: make([]BookedSession, 0, len(sessionIDs)),
		Failed:  make([]FailedSession, 0),
	}
	failAll := func(reason domain.Reason) *BatchBookResult {
		for _, id := range sessionIDs {
			res.fail(id, reason)
		}
		span.SetAttributes(attribute.String("batch.rejected", string(reason)))
		return res
	}

	// --------------------------------------------------
	// 1️⃣ Elegibilidade (uma vez por lote)
	// --------------------------------------------------
	eligible, reason, err := uc.gate.Check(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "membership lookup failed")
		logx.EventCtx(ctx, "reservation", "batch_book", fmt.Sprintf("user=%d membership lookup failed: %v", userID, err))
		return failAll(domain.ReasonUpstreamUnavailable), nil
	}
	if !eligible {
		return failAll(reason), nil
	}

	// --------------------------------------------------
	// 2️⃣ Snapshot do catálogo + índice da ponte
	// --------------------------------------------------
	cctx, cancel := context.WithTimeout(ctx, uc.upstreamTimeout)
	sessions, err := uc.catalog.GenerateSessions(cctx)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unavailable")
		logx.EventCtx(ctx, "reservation", "batch_book", fmt.Sprintf("user=%d catalog failed: %v", userID, err))
		return failAll(domain.ReasonUpstreamUnavailable), nil
	}
	index := bridge.New(sessions)
	now := uc.clock.Now()

	// --------------------------------------------------
	// 3️⃣ Sessão a sessão
	// --------------------------------------------------
	for _, sessionID := range sessionIDs {
		appointmentID, reason := uc.bookOne(ctx, index, userID, sessionID, now)
		if reason != "" {
			res.fail(sessionID, reason)
			continue
		}
		res.Success = append(res.Success, BookedSession{
			SessionID:     sessionID,
			AppointmentID: appointmentID,
		})
	}

	span.SetAttributes(
		attribute.Int("sessions.booked", len(res.Success)),
		attribute.Int("sessions.failed", len(res.Failed)),
	)
	logx.EventCtx(ctx, "reservation", "batch_book", fmt.Sprintf(
		"user=%d requested=%d booked=%d failed=%d",
		userID, len(sessionIDs), len(res.Success), len(res.Failed),
	))

	return res, nil
}

func (uc *BatchBook) bookOne(
	ctx context.Context,
	index *bridge.Index,
	userID int,
	sessionID string,
	now time.Time,
) (int, domain.Reason) {

	session, legacyID, ok := index.ResolveSessionID(sessionID)
	if !ok {
		return 0, domain.ReasonNotFound
	}

	if session.StartsWithin(now, uc.cutoff) {
		return 0, domain.ReasonWithin24h
	}

	held, unlock, err := holdLock(ctx, uc.locker, legacyID, uc.upstreamTimeout)
	if err != nil {
		logx.EventCtx(ctx, "reservation", "lock", fmt.Sprintf("session=%s timeslot=%d: %v", sessionID, legacyID, err))
		return 0, domain.ReasonUpstreamUnavailable
	}
	defer unlock()
	ctx = held

	// ocupação: o maior entre o catálogo e o ledger, lido sob o lock
	confirmed, err := uc.ledger.CountConfirmed(ctx, legacyID)
	if err != nil {
		logx.EventCtx(ctx, "reservation", "count", fmt.Sprintf("session=%s: %v", sessionID, err))
		return 0, domain.ReasonUpstreamUnavailable
	}
	occupancy := max(session.CurrentEnrollments, confirmed)
	if occupancy >= session.Capacity {
		return 0, domain.ReasonAtCapacity
	}

	exists, err := uc.ledger.Exists(ctx, userID, legacyID)
	if err != nil {
		logx.EventCtx(ctx, "reservation", "exists", fmt.Sprintf("session=%s: %v", sessionID, err))
		return 0, domain.ReasonUpstreamUnavailable
	}
	if exists {
		return 0, domain.ReasonAlreadyBooked
	}

	id, err := uc.ledger.Append(ctx, domain.Appointment{
		LegacyTimeslotID: legacyID,
		UserID:           userID,
		Status:           domain.InitialStatus(),
		CreatedAt:        now,
	})
	if err != nil {
		logx.EventCtx(ctx, "reservation", "append", fmt.Sprintf("session=%s: %v", sessionID, err))
		return 0, domain.ReasonUpstreamUnavailable
	}

	uc.notifier.BookingsChanged(domain.ChangeEvent{
		Type:             domain.EventBookingCreated,
		UserID:           userID,
		AppointmentID:    id,
		SessionID:        sessionID,
		LegacyTimeslotID: legacyID,
		OccurredAt:       now,
	})

	return id, ""
}
