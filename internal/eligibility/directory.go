package eligibility

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/class-reservations/internal/clock"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/models"
)

// ======================================================
// GORM
// ======================================================

// GormDirectory lê a tabela memberships, que pertence ao financeiro.
type GormDirectory struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewGormDirectory(db *gorm.DB, clk clock.Clock) *GormDirectory {
	return &GormDirectory{db: db, clock: clk}
}

// GetActiveOrPendingMembership devolve o plano mais recente que está
// purchased_inactive, ou activated e ainda não vencido.
func (d *GormDirectory) GetActiveOrPendingMembership(ctx context.Context, userID int) (*domain.Membership, error) {
	now := d.clock.Now()

	var rows []models.Membership
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(
			"state = ? OR (state = ? AND (expires_at IS NULL OR expires_at > ?))",
			string(domain.MembershipPurchasedInactive),
			string(domain.MembershipActivated),
			now,
		).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	m := rows[0]
	return &domain.Membership{
		UserID:    m.UserID,
		State:     domain.MembershipState(m.State),
		ExpiresAt: m.ExpiresAt,
	}, nil
}

// ======================================================
// STATIC
// ======================================================

// StaticDirectory é um diretório em memória.
type StaticDirectory struct {
	mu          sync.RWMutex
	memberships map[int]domain.Membership
	err         error
}

func NewStaticDirectory(memberships ...domain.Membership) *StaticDirectory {
	d := &StaticDirectory{memberships: make(map[int]domain.Membership)}
	for _, m := range memberships {
		d.memberships[m.UserID] = m
	}
	return d
}

func (d *StaticDirectory) Put(m domain.Membership) {
	d.mu.Lock()
	d.memberships[m.UserID] = m
	d.mu.Unlock()
}

// FailWith faz toda consulta devolver err, até ser chamado com nil.
func (d *StaticDirectory) FailWith(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

func (d *StaticDirectory) GetActiveOrPendingMembership(ctx context.Context, userID int) (*domain.Membership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.err != nil {
		return nil, d.err
	}
	m, ok := d.memberships[userID]
	if !ok || !m.State.AllowsBooking() {
		return nil, nil
	}
	return &m, nil
}
