package appointment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BruksfildServices01/class-reservations/internal/bridge"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/eligibility"
	"github.com/BruksfildServices01/class-reservations/internal/ledger"
)

// stallingLedger trava as escritas e contagens até o ctx acabar.
type stallingLedger struct {
	domain.Ledger
	unbounded atomic.Bool
}

func (l *stallingLedger) stall(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		l.unbounded.Store(true)
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (l *stallingLedger) CountConfirmed(ctx context.Context, legacyTimeslotID int) (int, error) {
	if err := l.stall(ctx); err != nil {
		return 0, err
	}
	return l.Ledger.CountConfirmed(ctx, legacyTimeslotID)
}

func (l *stallingLedger) Cancel(ctx context.Context, id, userID int, now time.Time) (bool, error) {
	if err := l.stall(ctx); err != nil {
		return false, err
	}
	return l.Ledger.Cancel(ctx, id, userID, now)
}

func assertLockFree(t *testing.T, locker domain.Locker, key int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		t.Fatalf("timeslot %d still locked: %v", key, err)
	}
	unlock()
}

func TestBatchBookLockedSectionIsBounded(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)

	slow := &stallingLedger{Ledger: e.ledger}
	book := NewBatchBook(eligibility.NewGate(e.dir, time.Second), e.catalog, slow, e.locker, e.notifier, e.clock,
		WithUpstreamTimeout(50*time.Millisecond))

	res, err := book.Execute(context.Background(), 1, []string{"A"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if slow.unbounded.Load() {
		t.Fatalf("ledger was called under the lock without a deadline")
	}
	if len(res.Failed) != 1 || res.Failed[0].Reason != domain.ReasonUpstreamUnavailable {
		t.Fatalf("expected UPSTREAM_UNAVAILABLE, got %+v", res)
	}
	if all, _ := e.ledger.ListAll(context.Background()); len(all) != 0 {
		t.Fatalf("no appointment may be written, got %d", len(all))
	}
	assertLockFree(t, e.locker, bridge.ToLegacyID("A"))
}

func TestCancelLockedSectionIsBounded(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)
	id := e.mustBook(t, 1, "A")

	slow := &stallingLedger{Ledger: e.ledger}
	cancel := NewCancelAppointment(e.catalog, slow, e.locker, e.notifier, e.clock,
		WithUpstreamTimeout(50*time.Millisecond))

	err := cancel.Execute(context.Background(), 1, id)
	if kind, ok := domain.KindOf(err); !ok || kind != domain.ErrUpstreamUnavailable {
		t.Fatalf("expected UPSTREAM_UNAVAILABLE, got %v", err)
	}
	if slow.unbounded.Load() {
		t.Fatalf("ledger was called under the lock without a deadline")
	}

	ap, _ := e.ledger.Get(context.Background(), id, 1)
	if ap == nil || ap.Status != domain.StatusConfirmed {
		t.Fatalf("appointment must stay confirmed, got %+v", ap)
	}
	assertLockFree(t, e.locker, bridge.ToLegacyID("A"))
}

func TestBatchBookSameUserConcurrently(t *testing.T) {
	t.Parallel()

	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), 10, 0))
	e.member(1)

	const attempts = 20
	var (
		wg     sync.WaitGroup
		booked atomic.Int32
		dup    atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.book.Execute(context.Background(), 1, []string{"A"})
			if err != nil {
				t.Errorf("batch book: %v", err)
				return
			}
			booked.Add(int32(len(res.Success)))
			for _, f := range res.Failed {
				if f.Reason == domain.ReasonAlreadyBooked {
					dup.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if booked.Load() != 1 || dup.Load() != attempts-1 {
		t.Fatalf("expected 1 booking and %d ALREADY_BOOKED, got %d and %d", attempts-1, booked.Load(), dup.Load())
	}

	mine, _ := e.ledger.ListByUser(context.Background(), 1)
	confirmed := 0
	for _, ap := range mine {
		if ap.Status == domain.StatusConfirmed {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Fatalf("expected exactly one CONFIRMED appointment, got %d", confirmed)
	}
}

// capacityWatch lê a ocupação a cada evento, ainda dentro do lock.
type capacityWatch struct {
	ledger *ledger.Ledger
	key    int

	mu   sync.Mutex
	peak int
}

func (w *capacityWatch) BookingsChanged(domain.ChangeEvent) {
	n, _ := w.ledger.CountConfirmed(context.Background(), w.key)
	w.mu.Lock()
	if n > w.peak {
		w.peak = n
	}
	w.mu.Unlock()
}

func TestCancelRacesBookingOnFullSession(t *testing.T) {
	t.Parallel()

	const capacity = 2
	e := newEnv(t, session("A", baseNow.Add(72*time.Hour), capacity, 0))
	for u := 1; u <= 20; u++ {
		e.member(u)
	}
	id := e.mustBook(t, 1, "A")
	e.mustBook(t, 2, "A")

	key := bridge.ToLegacyID("A")
	watch := &capacityWatch{ledger: e.ledger, key: key}
	book := NewBatchBook(eligibility.NewGate(e.dir, time.Second), e.catalog, e.ledger, e.locker, watch, e.clock)
	cancel := NewCancelAppointment(e.catalog, e.ledger, e.locker, watch, e.clock)

	const cancels = 5
	var (
		wg       sync.WaitGroup
		canceled atomic.Int32
		already  atomic.Int32
		booked   atomic.Int32
	)
	for i := 0; i < cancels; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := cancel.Execute(context.Background(), 1, id)
			switch {
			case err == nil:
				canceled.Add(1)
			case errors.Is(err, domain.ErrAlreadyCanceled):
				already.Add(1)
			default:
				t.Errorf("unexpected cancel error: %v", err)
			}
		}()
	}
	for u := 3; u <= 20; u++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			res, err := book.Execute(context.Background(), userID, []string{"A"})
			if err != nil {
				t.Errorf("user %d: %v", userID, err)
				return
			}
			booked.Add(int32(len(res.Success)))
		}(u)
	}
	wg.Wait()

	if canceled.Load() != 1 || already.Load() != cancels-1 {
		t.Fatalf("expected 1 cancel and %d ALREADY_CANCELED, got %d and %d", cancels-1, canceled.Load(), already.Load())
	}
	if booked.Load() > 1 {
		t.Fatalf("only the freed seat can be booked, got %d bookings", booked.Load())
	}

	n, _ := e.ledger.CountConfirmed(context.Background(), key)
	if n > capacity || n != 1+int(booked.Load()) {
		t.Fatalf("confirmed=%d capacity=%d booked=%d", n, capacity, booked.Load())
	}
	if watch.peak > capacity {
		t.Fatalf("occupancy reached %d, capacity is %d", watch.peak, capacity)
	}
}
