package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

func TestCancelAppointment(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)
	id := e.mustBook(t, 1, "A")

	if err := e.cancel.Execute(context.Background(), 1, id); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}

	ap, _ := e.ledger.Get(context.Background(), id, 1)
	if ap == nil || ap.Status != domain.StatusCanceled || ap.CanceledAt == nil {
		t.Fatalf("expected canceled appointment, got %+v", ap)
	}

	if err := e.cancel.Execute(context.Background(), 1, id); !errors.Is(err, domain.ErrAlreadyCanceled) {
		t.Fatalf("expected ALREADY_CANCELED, got %v", err)
	}

	if e.notifier.count() != 2 || e.notifier.events[1].Type != domain.EventBookingCanceled {
		t.Fatalf("expected booking.created then booking.cancelled, got %+v", e.notifier.events)
	}

	// reservar de novo cria outro agendamento
	again := e.mustBook(t, 1, "A")
	if again == id {
		t.Fatalf("rebooking must not reuse id %d", id)
	}
}

func TestCancelAppointmentNotFound(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)
	e.member(2)
	id := e.mustBook(t, 1, "A")

	if err := e.cancel.Execute(context.Background(), 1, 999); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected APPOINTMENT_NOT_FOUND, got %v", err)
	}
	// agendamento de outro usuário
	if err := e.cancel.Execute(context.Background(), 2, id); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected APPOINTMENT_NOT_FOUND for another user, got %v", err)
	}
}

func TestCancelAppointmentCutoffBoundary(t *testing.T) {
	t.Parallel()

	start := baseNow.Add(72 * time.Hour)
	e := newEnv(t, session("A", start, 10, 0))
	e.member(1)
	id := e.mustBook(t, 1, "A")

	e.clock.Set(start.Add(-24 * time.Hour))
	err := e.cancel.Execute(context.Background(), 1, id)
	if !errors.Is(err, domain.ErrCannotCancelWithin24h) {
		t.Fatalf("expected CANNOT_CANCEL_WITHIN_24H at exactly 24h, got %v", err)
	}
	if kind, _ := domain.KindOf(err); kind != domain.ErrCannotCancelWithin24h {
		t.Fatalf("unexpected kind %q", kind)
	}

	e.clock.Set(start.Add(-24*time.Hour - time.Second))
	if err := e.cancel.Execute(context.Background(), 1, id); err != nil {
		t.Fatalf("expected cancel at 24h+1s to succeed, got %v", err)
	}
}

func TestCancelAppointmentSessionGone(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)
	id := e.mustBook(t, 1, "A")

	e.catalog.Sessions = nil
	if err := e.cancel.Execute(context.Background(), 1, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected SESSION_NOT_FOUND, got %v", err)
	}
}

func TestCancelAppointmentCatalogFailure(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)
	id := e.mustBook(t, 1, "A")

	e.catalog.Err = errors.New("templates unavailable")
	err := e.cancel.Execute(context.Background(), 1, id)
	if kind, ok := domain.KindOf(err); !ok || kind != domain.ErrUpstreamUnavailable {
		t.Fatalf("expected UPSTREAM_UNAVAILABLE, got %v", err)
	}
}
