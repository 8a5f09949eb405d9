package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

// Sink recebe os eventos de reserva do worker do dispatcher.
type Sink interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

type Dispatcher struct {
	sinks   []Sink
	queue   chan domain.ChangeEvent
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

var _ domain.ChangeNotifier = (*Dispatcher)(nil)

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		queue:   make(chan domain.ChangeEvent, 100), // buffer seguro
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := s.Publish(ctx, ev); err != nil {
				log.Println("audit error:", err)
			}
			cancel()
		}
	}
}

// BookingsChanged enfileira o evento sem bloquear quem chamou.
func (d *Dispatcher) BookingsChanged(ev domain.ChangeEvent) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	defer func() {
		// fila fechada durante o shutdown
		if recover() != nil {
			log.Println("audit dispatcher closed, dropping event", ev.ID)
		}
	}()

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos o evento (nunca quebrar API)
		log.Println("audit queue full, dropping event", ev.ID)
	}
}

// Close para de aceitar eventos e espera a fila esvaziar.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
