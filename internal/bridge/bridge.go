// Package bridge liga os ids de sessão do catálogo (strings) aos ids
// inteiros de horário gravados nos agendamentos, nos dois sentidos.
package bridge

import (
	"log"
	"sort"

	"github.com/cespare/xxhash/v2"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

// ToLegacyID converte o id da sessão no id legado de horário. Depende só
// dos bytes de sessionID e cabe num int32 com sinal.
func ToLegacyID(sessionID string) int {
	return int(xxhash.Sum64String(sessionID) & 0x7fffffff)
}

// Index é o mapeamento nos dois sentidos de um snapshot do catálogo.
type Index struct {
	sessions []domain.Session
	byID     map[string]int
	byLegacy map[int][]int
}

func New(sessions []domain.Session) *Index {
	ix := &Index{
		sessions: sessions,
		byID:     make(map[string]int, len(sessions)),
		byLegacy: make(map[int][]int, len(sessions)),
	}
	for i, s := range sessions {
		ix.byID[s.ID] = i
		legacyID := ToLegacyID(s.ID)
		ix.byLegacy[legacyID] = append(ix.byLegacy[legacyID], i)
	}
	return ix
}

// Resolve devolve a única sessão cujo hash é legacyID. Colisão conta
// como não encontrada.
func (ix *Index) Resolve(legacyID int) (domain.Session, bool) {
	matches := ix.byLegacy[legacyID]
	switch len(matches) {
	case 0:
		return domain.Session{}, false
	case 1:
		return ix.sessions[matches[0]], true
	default:
		ids := make([]string, 0, len(matches))
		for _, i := range matches {
			ids = append(ids, ix.sessions[i].ID)
		}
		log.Printf("[BRIDGE] WARN legacy id collision legacy_id=%d sessions=%v", legacyID, ids)
		return domain.Session{}, false
	}
}

// ResolveSessionID passa pelo id legado, então sessão com hash em
// colisão nunca é reservável.
func (ix *Index) ResolveSessionID(sessionID string) (domain.Session, int, bool) {
	legacyID := ToLegacyID(sessionID)
	if _, ok := ix.byID[sessionID]; !ok {
		return domain.Session{}, legacyID, false
	}
	s, ok := ix.Resolve(legacyID)
	if !ok || s.ID != sessionID {
		return domain.Session{}, legacyID, false
	}
	return s, legacyID, true
}

// Sessions devolve o snapshot usado para montar o índice.
func (ix *Index) Sessions() []domain.Session {
	return ix.sessions
}

// Collisions lista os ids legados com mais de uma sessão.
func (ix *Index) Collisions() []int {
	var out []int
	for legacyID, matches := range ix.byLegacy {
		if len(matches) > 1 {
			out = append(out, legacyID)
		}
	}
	sort.Ints(out)
	return out
}
