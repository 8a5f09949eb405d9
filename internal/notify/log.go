package notify

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/logx"
)

// LogSink escreve os eventos no log do processo.
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	logx.Event(ev.ID, "events", ev.Type, fmt.Sprintf(
		"user=%d appointment=%d session=%s timeslot=%d",
		ev.UserID, ev.AppointmentID, ev.SessionID, ev.LegacyTimeslotID,
	))
	return nil
}
