package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
	"github.com/BruksfildServices01/class-reservations/internal/export"
	"github.com/BruksfildServices01/class-reservations/internal/httperr"
	"github.com/BruksfildServices01/class-reservations/internal/httpresp"
	"github.com/BruksfildServices01/class-reservations/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/class-reservations/internal/usecase/appointment"
)

// Exporter grava um snapshot do ledger fora do serviço.
type Exporter interface {
	Export(ctx context.Context, appointments []domain.Appointment) (string, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book     *ucAppointment.BatchBook
	cancel   *ucAppointment.CancelAppointment
	list     *ucAppointment.ListAppointments
	exporter Exporter
}

func NewAppointmentHandler(
	book *ucAppointment.BatchBook,
	cancel *ucAppointment.CancelAppointment,
	list *ucAppointment.ListAppointments,
	exporter Exporter,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:     book,
		cancel:   cancel,
		list:     list,
		exporter: exporter,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BatchBookRequest struct {
	SessionIDs []string `json:"session_ids" binding:"required,min=1"`
}

// ======================================================
// BATCH BOOK
// ======================================================

func (h *AppointmentHandler) BatchBook(c *gin.Context) {
	userID := middleware.UserID(c)

	var req BatchBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe ao menos uma sessão.")
		return
	}

	res, err := h.book.Execute(c.Request.Context(), userID, req.SessionIDs)
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			if be.Code == "batch_too_large" {
				httperr.Unprocessable(c, be.Code, fmt.Sprintf("Máximo de %d sessões por pedido.", ucAppointment.MaxBatchSize))
				return
			}
			httperr.BadRequest(c, be.Code, "Pedido inválido.")
			return
		}
		httperr.Internal(c, "batch_book_failed", "Erro ao reservar.")
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := middleware.UserID(c)

	appointmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || appointmentID <= 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if err := h.cancel.Execute(c.Request.Context(), userID, appointmentID); err != nil {
		writeCancelError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"ok": true})
}

func writeCancelError(c *gin.Context, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		httperr.Internal(c, "cancel_failed", "Erro ao cancelar.")
		return
	}

	switch kind {
	case domain.ErrAppointmentNotFound:
		httperr.NotFound(c, string(kind), "Agendamento não encontrado.")
	case domain.ErrSessionNotFound:
		httperr.NotFound(c, string(kind), "Sessão não encontrada.")
	case domain.ErrAlreadyCanceled:
		httperr.Conflict(c, string(kind), "Agendamento já cancelado.")
	case domain.ErrCannotCancelWithin24h:
		httperr.Unprocessable(c, string(kind), "Cancelamento só com mais de 24h de antecedência.")
	default:
		httperr.Unavailable(c, string(domain.ErrUpstreamUnavailable), "Serviço indisponível, tente novamente.")
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	out, err := h.list.ByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Unavailable(c, string(domain.ErrUpstreamUnavailable), "Erro ao listar agendamentos.")
		return
	}
	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	out, err := h.list.All(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, string(domain.ErrUpstreamUnavailable), "Erro ao listar agendamentos.")
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// EXPORT
// ======================================================

func (h *AppointmentHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		httperr.Unavailable(c, "export_not_configured", "Exportação não configurada.")
		return
	}

	appointments, err := h.list.Raw(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, string(domain.ErrUpstreamUnavailable), "Erro ao ler agendamentos.")
		return
	}

	key, err := h.exporter.Export(c.Request.Context(), appointments)
	if err != nil {
		if errors.Is(err, export.ErrNotConfigured) {
			httperr.Unavailable(c, "export_not_configured", "Exportação não configurada.")
			return
		}
		httperr.Internal(c, "export_failed", "Erro ao exportar.")
		return
	}

	httpresp.Created(c, gin.H{
		"key":   key,
		"total": len(appointments),
	})
}
