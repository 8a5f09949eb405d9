package appointment

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestListAppointments(t *testing.T) {
	t.Parallel()

	e := newEnv(t,
		session("A", baseNow.Add(72*time.Hour), 10, 0),
		session("B", baseNow.Add(96*time.Hour), 10, 0),
	)
	e.member(1)
	e.member(2)

	e.mustBook(t, 1, "A")
	e.mustBook(t, 2, "B")

	uc := NewListAppointments(e.ledger, e.catalog)

	mine, err := uc.ByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(mine) != 1 || mine[0].SessionID != "A" || mine[0].StartTime == nil {
		t.Fatalf("unexpected user listing %+v", mine)
	}

	all, err := uc.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0].ID > all[1].ID {
		t.Fatalf("expected 2 appointments ordered by id, got %+v", all)
	}

	// catálogo fora: a listagem sai sem os dados da sessão
	e.catalog.Err = errors.New("down")
	all, err = uc.All(context.Background())
	if err != nil || len(all) != 2 || all[0].SessionID != "" {
		t.Fatalf("expected unenriched listing, got %+v %v", all, err)
	}
}

func TestListSessions(t *testing.T) {
	t.Parallel()

	start := baseNow.Add(72 * time.Hour)
	e := newEnv(t,
		session("A", start, 10, 4),
		session("dup", start, 10, 0),
		session("dup", start, 10, 0),
	)

	out, err := NewListSessions(e.catalog).Execute(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(out) != 1 || out[0].ID != "A" || out[0].Available != 6 {
		t.Fatalf("unexpected sessions %+v", out)
	}
}
