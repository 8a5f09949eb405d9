package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

const maxAppendAttempts = 3

// Ledger é a visão consolidada do store em memória e do store persistido
// (opcional). Escritas vão para o persistido quando ele existe.
type Ledger struct {
	mem       *MemoryStore
	persisted Store
	lastID    atomic.Int64
}

var _ domain.Ledger = (*Ledger)(nil)

// Open monta o ledger e inicia o contador de ids com o maior id
// encontrado nos dois stores.
func Open(ctx context.Context, mem *MemoryStore, persisted Store) (*Ledger, error) {
	if mem == nil {
		mem = NewMemoryStore()
	}
	l := &Ledger{mem: mem, persisted: persisted}
	if err := l.reseed(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) writer() Store {
	if l.persisted != nil {
		return l.persisted
	}
	return l.mem
}

func (l *Ledger) reseed(ctx context.Context) error {
	records, err := l.scanAll(ctx)
	if err != nil {
		return err
	}

	highest := 0
	for _, r := range records {
		if r.ID > highest {
			highest = r.ID
		}
	}

	for {
		cur := l.lastID.Load()
		if int64(highest) <= cur || l.lastID.CompareAndSwap(cur, int64(highest)) {
			return nil
		}
	}
}

func (l *Ledger) scanAll(ctx context.Context) ([]domain.Appointment, error) {
	records, err := l.mem.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan memory store: %w", err)
	}
	if l.persisted == nil {
		return records, nil
	}

	stored, err := l.persisted.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan persisted store: %w", err)
	}
	return append(records, stored...), nil
}

func (l *Ledger) view(ctx context.Context) ([]domain.Appointment, error) {
	records, err := l.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return Merge(records), nil
}

// Merge reduz o log a um agendamento por (ID, UserID): CANCELED vence
// CONFIRMED, senão vence o CreatedAt mais recente. Saída ordenada por id.
func Merge(records []domain.Appointment) []domain.Appointment {
	type key struct{ id, user int }

	winners := make(map[key]domain.Appointment, len(records))
	for _, r := range records {
		k := key{r.ID, r.UserID}
		cur, ok := winners[k]
		if !ok || domain.Supersedes(r, cur) {
			winners[k] = r
		}
	}

	out := make([]domain.Appointment, 0, len(winners))
	for _, ap := range winners {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// ======================================================
// LEITURA
// ======================================================

func (l *Ledger) Exists(ctx context.Context, userID, legacyTimeslotID int) (bool, error) {
	all, err := l.view(ctx)
	if err != nil {
		return false, err
	}
	for _, ap := range all {
		if ap.UserID == userID &&
			ap.LegacyTimeslotID == legacyTimeslotID &&
			ap.Status == domain.StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) Get(ctx context.Context, id, userID int) (*domain.Appointment, error) {
	all, err := l.view(ctx)
	if err != nil {
		return nil, err
	}
	for _, ap := range all {
		if ap.ID == id && ap.UserID == userID {
			found := ap
			return &found, nil
		}
	}
	return nil, nil
}

func (l *Ledger) CountConfirmed(ctx context.Context, legacyTimeslotID int) (int, error) {
	all, err := l.view(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, ap := range all {
		if ap.LegacyTimeslotID == legacyTimeslotID && ap.Status == domain.StatusConfirmed {
			n++
		}
	}
	return n, nil
}

// ConfirmedByTimeslot conta os CONFIRMED por id legado de horário.
func (l *Ledger) ConfirmedByTimeslot(ctx context.Context) (map[int]int, error) {
	all, err := l.view(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int)
	for _, ap := range all {
		if ap.Status == domain.StatusConfirmed {
			counts[ap.LegacyTimeslotID]++
		}
	}
	return counts, nil
}

func (l *Ledger) ListByUser(ctx context.Context, userID int) ([]domain.Appointment, error) {
	all, err := l.view(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0)
	for _, ap := range all {
		if ap.UserID == userID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (l *Ledger) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return l.view(ctx)
}

// ======================================================
// ESCRITA
// ======================================================

// Append grava ap como novo agendamento CONFIRMED e devolve o id.
// Quem chama confere Exists antes, com o lock do horário.
func (l *Ledger) Append(ctx context.Context, ap domain.Appointment) (int, error) {
	ap.Status = domain.InitialStatus()
	ap.CanceledAt = nil

	for attempt := 1; ; attempt++ {
		ap.ID = int(l.lastID.Add(1))

		err := l.writer().Append(ctx, ap)
		if err == nil {
			return ap.ID, nil
		}
		if !errors.Is(err, ErrDuplicateID) || attempt >= maxAppendAttempts {
			return 0, fmt.Errorf("append appointment: %w", err)
		}

		// outra instância pegou o id
		if err := l.reseed(ctx); err != nil {
			return 0, err
		}
	}
}

// Cancel acrescenta um registro CANCELED para (id, userID). Devolve false
// se o agendamento não existe ou já foi cancelado.
func (l *Ledger) Cancel(ctx context.Context, id, userID int, now time.Time) (bool, error) {
	ap, err := l.Get(ctx, id, userID)
	if err != nil {
		return false, err
	}
	if ap == nil {
		return false, nil
	}

	canceled, err := domain.Cancel(*ap, now)
	if err != nil {
		return false, nil
	}

	if err := l.writer().Append(ctx, canceled); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return false, nil
		}
		return false, fmt.Errorf("append cancellation: %w", err)
	}
	return true, nil
}
