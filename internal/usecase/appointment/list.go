package appointment

import (
	"context"

	"github.com/BruksfildServices01/class-reservations/internal/bridge"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/dto"
	"github.com/BruksfildServices01/class-reservations/internal/logx"
)

type ListAppointments struct {
	ledger  domain.Ledger
	catalog domain.Catalog
}

func NewListAppointments(
	ledger domain.Ledger,
	catalog domain.Catalog,
) *ListAppointments {
	return &ListAppointments{
		ledger:  ledger,
		catalog: catalog,
	}
}

// ByUser lista os agendamentos do usuário, ordenados por id.
func (uc *ListAppointments) ByUser(
	ctx context.Context,
	userID int,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, appointments), nil
}

// All lista todos os agendamentos (visão administrativa).
func (uc *ListAppointments) All(
	ctx context.Context,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, appointments), nil
}

// Raw devolve a visão consolidada sem enriquecer (export).
func (uc *ListAppointments) Raw(ctx context.Context) ([]domain.Appointment, error) {
	return uc.ledger.ListAll(ctx)
}

// enrich preenche os dados da sessão quando o catálogo responde;
// sessões fora do horizonte ficam só com o legacy id.
func (uc *ListAppointments) enrich(
	ctx context.Context,
	appointments []domain.Appointment,
) []dto.AppointmentListDTO {

	var index *bridge.Index
	if sessions, err := uc.catalog.GenerateSessions(ctx); err == nil {
		index = bridge.New(sessions)
	} else {
		logx.EventCtx(ctx, "reservation", "list", "catalog unavailable: "+err.Error())
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:               ap.ID,
			UserID:           ap.UserID,
			LegacyTimeslotID: ap.LegacyTimeslotID,
			Status:           string(ap.Status),
			CreatedAt:        ap.CreatedAt,
			CanceledAt:       ap.CanceledAt,
		}
		if index != nil {
			if s, ok := index.Resolve(ap.LegacyTimeslotID); ok {
				start, end := s.Start, s.End
				item.SessionID = s.ID
				item.CourseID = s.CourseID
				item.TeacherID = s.TeacherID
				item.StartTime = &start
				item.EndTime = &end
			}
		}
		out = append(out, item)
	}
	return out
}
