package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"pantrypal-backend/internal/http/middleware"
	"pantrypal-backend/internal/response"
	"pantrypal-backend/internal/services"
)

type StatsHandler struct {
	svc *services.StatsService
	log *zap.Logger
}

func NewStatsHandler(svc *services.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	summary, err := h.svc.Summary(id.UserID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, summary)
}

func (h *StatsHandler) MonthlySpending(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	spending, err := h.svc.MonthlySpending(id.UserID, months)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, spending)
}

func (h *StatsHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	breakdown, err := h.svc.CategoryBreakdown(id.UserID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, breakdown)
}

func (h *StatsHandler) FrequencyReport(w http.ResponseWriter, r *http.Request, id middleware.Identity) {
	report, err := h.svc.FrequencyReport(id.UserID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, report)
}
