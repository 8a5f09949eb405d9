package appointment

import (
	"context"

	"github.com/BruksfildServices01/class-reservations/internal/bridge"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/dto"
)

type ListSessions struct {
	catalog domain.Catalog
}

func NewListSessions(catalog domain.Catalog) *ListSessions {
	return &ListSessions{catalog: catalog}
}

// Execute devolve o snapshot atual do catálogo com os legacy ids.
// Sessões cujo legacy id colide ficam de fora: não podem ser reservadas.
func (uc *ListSessions) Execute(ctx context.Context) ([]dto.SessionDTO, error) {
	sessions, err := uc.catalog.GenerateSessions(ctx)
	if err != nil {
		return nil, err
	}

	index := bridge.New(sessions)
	out := make([]dto.SessionDTO, 0, len(sessions))
	for _, s := range index.Sessions() {
		_, legacyID, ok := index.ResolveSessionID(s.ID)
		if !ok {
			continue
		}
		out = append(out, dto.SessionDTO{
			ID:                 s.ID,
			LegacyTimeslotID:   legacyID,
			CourseID:           s.CourseID,
			TeacherID:          s.TeacherID,
			Date:               s.Date,
			StartTime:          s.Start,
			EndTime:            s.End,
			Capacity:           s.Capacity,
			CurrentEnrollments: s.CurrentEnrollments,
			Available:          max(s.Capacity-s.CurrentEnrollments, 0),
		})
	}
	return out, nil
}
