package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/httperr"
	"github.com/BruksfildServices01/class-reservations/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/class-reservations/internal/usecase/appointment"
)

type SessionHandler struct {
	list *ucAppointment.ListSessions
}

func NewSessionHandler(list *ucAppointment.ListSessions) *SessionHandler {
	return &SessionHandler{list: list}
}

func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.list.Execute(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, string(domain.ErrUpstreamUnavailable), "Catálogo indisponível.")
		return
	}
	httpresp.List(c, sessions)
}
