package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/class-reservations/internal/bridge"
	"github.com/BruksfildServices01/class-reservations/internal/clock"
)

type fakeTemplates struct {
	templates []Template
	err       error
}

func (f fakeTemplates) ActiveTemplates(ctx context.Context) ([]Template, error) {
	return f.templates, f.err
}

type fakeCounter map[int]int

func (f fakeCounter) ConfirmedByTimeslot(ctx context.Context) (map[int]int, error) {
	return f, nil
}

func TestGenerateSessions(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	// segunda-feira
	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, loc))

	src := fakeTemplates{templates: []Template{
		{CourseID: "eng101", TeacherID: "t1", Weekday: time.Monday, StartTime: "18:00", EndTime: "19:00", Capacity: 8},
		{CourseID: "spa201", TeacherID: "t2", Weekday: time.Wednesday, StartTime: "07:30", EndTime: "08:30", Capacity: 4},
	}}

	wantID := "eng101-t1-20260302-1800"
	counter := fakeCounter{bridge.ToLegacyID(wantID): 3}

	g := NewGenerator(src, clk, loc, WithHorizonDays(14), WithEnrollments(counter))

	sessions, err := g.GenerateSessions(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sessions) != 4 {
		t.Fatalf("expected 4 sessions over two weeks, got %d", len(sessions))
	}

	first := sessions[0]
	if first.ID != wantID {
		t.Fatalf("expected first session %s, got %s", wantID, first.ID)
	}
	if first.CurrentEnrollments != 3 {
		t.Fatalf("expected 3 enrollments, got %d", first.CurrentEnrollments)
	}
	if first.Date != "2026-03-02" || first.Capacity != 8 {
		t.Fatalf("unexpected session %+v", first)
	}
	if !first.End.After(first.Start) {
		t.Fatalf("end must be after start")
	}

	again, err := g.GenerateSessions(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := range sessions {
		if sessions[i].ID != again[i].ID {
			t.Fatalf("generation is not stable: %s != %s", sessions[i].ID, again[i].ID)
		}
	}
}

func TestGenerateSessionsInvalidTemplate(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	src := fakeTemplates{templates: []Template{
		{CourseID: "eng101", TeacherID: "t1", Weekday: time.Monday, StartTime: "19:00", EndTime: "18:00"},
	}}

	if _, err := NewGenerator(src, clk, time.UTC).GenerateSessions(context.Background()); err == nil {
		t.Fatalf("expected error for end before start")
	}
}

func TestGenerateSessionsSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	clk := clock.NewManual(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	_, err := NewGenerator(fakeTemplates{err: boom}, clk, time.UTC).GenerateSessions(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (&Static{}).GenerateSessions(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
