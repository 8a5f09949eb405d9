package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/httperr"
	"github.com/BruksfildServices01/class-reservations/internal/middleware"
)

type MeHandler struct {
	gate domain.EligibilityChecker
}

func NewMeHandler(gate domain.EligibilityChecker) *MeHandler {
	return &MeHandler{gate: gate}
}

// GetMe devolve o usuário do token e se ele pode reservar agora.
func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	eligible, reason, err := h.gate.Check(c.Request.Context(), userID)
	if err != nil {
		httperr.Unavailable(c, string(domain.ErrUpstreamUnavailable), "Não foi possível consultar a matrícula.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":   userID,
			"role": c.GetString(middleware.ContextUserRole),
		},
		"booking": gin.H{
			"eligible": eligible,
			"reason":   reason,
		},
	})
}
