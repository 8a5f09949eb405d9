package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/class-reservations/internal/bridge"
	"github.com/BruksfildServices01/class-reservations/internal/clock"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

// Template é uma aula semanal recorrente.
type Template struct {
	CourseID  string
	TeacherID string
	Weekday   time.Weekday
	StartTime string // "15:04"
	EndTime   string
	Capacity  int
}

type TemplateSource interface {
	ActiveTemplates(ctx context.Context) ([]Template, error)
}

// EnrollmentCounter informa os CONFIRMED por id legado de horário.
type EnrollmentCounter interface {
	ConfirmedByTimeslot(ctx context.Context) (map[int]int, error)
}

// ======================================================
// GENERATOR
// ======================================================

type Generator struct {
	templates   TemplateSource
	enrollments EnrollmentCounter
	clock       clock.Clock
	loc         *time.Location
	horizonDays int
}

type Option func(*Generator)

func WithHorizonDays(days int) Option {
	return func(g *Generator) {
		if days > 0 {
			g.horizonDays = days
		}
	}
}

func WithEnrollments(c EnrollmentCounter) Option {
	return func(g *Generator) { g.enrollments = c }
}

func NewGenerator(
	templates TemplateSource,
	clk clock.Clock,
	loc *time.Location,
	opts ...Option,
) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	g := &Generator{
		templates:   templates,
		clock:       clk,
		loc:         loc,
		horizonDays: 28,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateSessions expande cada template ativo em [hoje, hoje+horizonte).
// Só depende dos templates, do dia e das matrículas: chamadas no mesmo dia
// geram os mesmos ids.
func (g *Generator) GenerateSessions(ctx context.Context) ([]domain.Session, error) {
	templates, err := g.templates.ActiveTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load class templates: %w", err)
	}

	var counts map[int]int
	if g.enrollments != nil {
		counts, err = g.enrollments.ConfirmedByTimeslot(ctx)
		if err != nil {
			return nil, fmt.Errorf("count enrollments: %w", err)
		}
	}

	now := g.clock.Now().In(g.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, g.loc)

	sessions := make([]domain.Session, 0, len(templates)*g.horizonDays/7+len(templates))
	for d := 0; d < g.horizonDays; d++ {
		day := today.AddDate(0, 0, d)

		for _, tpl := range templates {
			if tpl.Weekday != day.Weekday() {
				continue
			}

			s, err := expand(tpl, day, g.loc)
			if err != nil {
				return nil, err
			}
			s.CurrentEnrollments = counts[bridge.ToLegacyID(s.ID)]
			sessions = append(sessions, s)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].Start.Before(sessions[j].Start)
		}
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

func expand(tpl Template, day time.Time, loc *time.Location) (domain.Session, error) {
	date := day.Format("2006-01-02")

	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+tpl.StartTime, loc)
	if err != nil {
		return domain.Session{}, fmt.Errorf("template %s/%s: invalid start %q", tpl.CourseID, tpl.TeacherID, tpl.StartTime)
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+tpl.EndTime, loc)
	if err != nil || !end.After(start) {
		return domain.Session{}, fmt.Errorf("template %s/%s: invalid end %q", tpl.CourseID, tpl.TeacherID, tpl.EndTime)
	}

	return domain.Session{
		ID:        SessionID(tpl.CourseID, tpl.TeacherID, start),
		CourseID:  tpl.CourseID,
		TeacherID: tpl.TeacherID,
		Date:      date,
		Start:     start,
		End:       end,
		Capacity:  tpl.Capacity,
	}, nil
}

// SessionID monta "<curso>-<professor>-<AAAAMMDD>-<HHMM>".
func SessionID(courseID, teacherID string, start time.Time) string {
	return fmt.Sprintf("%s-%s-%s", courseID, teacherID, start.Format("20060102-1504"))
}

// ======================================================
// STATIC
// ======================================================

// Static serve uma lista fixa de sessões.
type Static struct {
	Sessions []domain.Session
	Err      error
}

func (s *Static) GenerateSessions(ctx context.Context) ([]domain.Session, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Session, len(s.Sessions))
	copy(out, s.Sessions)
	return out, nil
}
