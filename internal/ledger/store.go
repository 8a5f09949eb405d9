package ledger

import (
	"context"
	"errors"
	"sync"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

// ErrDuplicateID indica que o Store já tem um registro com o mesmo id
// de agendamento e status.
var ErrDuplicateID = errors.New("ledger: duplicate appointment record")

// Store é um log de registros de agendamento que só cresce.
type Store interface {
	Append(ctx context.Context, rec domain.Appointment) error
	Scan(ctx context.Context) ([]domain.Appointment, error)
}

// MemoryStore guarda os registros na memória do processo.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.Appointment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, rec domain.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == rec.ID && r.UserID == rec.UserID && r.Status == rec.Status {
			return ErrDuplicateID
		}
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) Scan(ctx context.Context) ([]domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Appointment, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
