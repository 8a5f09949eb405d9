package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/class-reservations/internal/audit"
	"github.com/BruksfildServices01/class-reservations/internal/httperr"
	"github.com/BruksfildServices01/class-reservations/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logger *audit.Logger
	loc    *time.Location
}

func NewAuditLogsHandler(logger *audit.Logger, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	f := audit.ListFilter{
		Action: c.Query("action"),
		Page:   page,
		Limit:  limit,
	}
	f.Normalize()

	// --------------------------------------------------
	// Filtros opcionais (datas no timezone da escola)
	// --------------------------------------------------

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := parseDateInSchool(h.loc, fromStr); err == nil {
			f.From = &from
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if to, err := parseDateInSchool(h.loc, toStr); err == nil {
			end := to.Add(24 * time.Hour)
			f.To = &end
		}
	}

	logs, total, err := h.logger.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, total, f.Page, f.Limit)
}
