package handler

import (
	"k12_reviser_v2/internal/api/middleware"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type PerformanceHandler struct {
	performanceService *service.PerformanceService
}

func NewPerformanceHandler(ps *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performanceService: ps}
}

func (h *PerformanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/all-progress", h.allProgress)
}

func (h *PerformanceHandler) summary(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCallerFromContext(r.Context())

	records, err := h.performanceService.Summary(r.Context(), caller)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, records)
}

func (h *PerformanceHandler) allProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.performanceService.AllProgress()
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progress)
}
