package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/class-reservations/internal/catalog"
	"github.com/BruksfildServices01/class-reservations/internal/clock"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/eligibility"
	"github.com/BruksfildServices01/class-reservations/internal/ledger"
	"github.com/BruksfildServices01/class-reservations/internal/lock"
)

var baseNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (n *recordingNotifier) BookingsChanged(ev domain.ChangeEvent) {
	n.mu.Lock()
	n.events = append(n.events, ev)
	n.mu.Unlock()
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type env struct {
	clock    *clock.Manual
	catalog  *catalog.Static
	dir      *eligibility.StaticDirectory
	ledger   *ledger.Ledger
	locker   domain.Locker
	notifier *recordingNotifier

	book   *BatchBook
	cancel *CancelAppointment
}

func session(id string, start time.Time, capacity, enrolled int) domain.Session {
	return domain.Session{
		ID:                 id,
		CourseID:           "eng101",
		TeacherID:          "t1",
		Date:               start.Format("2006-01-02"),
		Start:              start,
		End:                start.Add(time.Hour),
		Capacity:           capacity,
		CurrentEnrollments: enrolled,
	}
}

func newEnv(t *testing.T, sessions ...domain.Session) *env {
	t.Helper()

	l, err := ledger.Open(context.Background(), ledger.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	e := &env{
		clock:    clock.NewManual(baseNow),
		catalog:  &catalog.Static{Sessions: sessions},
		dir:      eligibility.NewStaticDirectory(),
		ledger:   l,
		locker:   lock.NewKeyedMutex(),
		notifier: &recordingNotifier{},
	}
	e.build()
	return e
}

func (e *env) build() {
	gate := eligibility.NewGate(e.dir, time.Second)
	e.book = NewBatchBook(gate, e.catalog, e.ledger, e.locker, e.notifier, e.clock,
		WithUpstreamTimeout(500*time.Millisecond))
	e.cancel = NewCancelAppointment(e.catalog, e.ledger, e.locker, e.notifier, e.clock,
		WithUpstreamTimeout(500*time.Millisecond))
}

func (e *env) member(userID int) {
	e.dir.Put(domain.Membership{UserID: userID, State: domain.MembershipActivated})
}

func (e *env) mustBook(t *testing.T, userID int, sessionID string) int {
	t.Helper()

	res, err := e.book.Execute(context.Background(), userID, []string{sessionID})
	if err != nil {
		t.Fatalf("batch book: %v", err)
	}
	if len(res.Success) != 1 {
		t.Fatalf("expected booking of %s to succeed, got %+v", sessionID, res.Failed)
	}
	return res.Success[0].AppointmentID
}
