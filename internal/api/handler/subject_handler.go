package handler

import (
	"encoding/json"
	"k12_reviser_v2/internal/api/middleware"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type SubjectHandler struct {
	contentService *service.ContentService
}

func NewSubjectHandler(cs *service.ContentService) *SubjectHandler {
	return &SubjectHandler{contentService: cs}
}

func (h *SubjectHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.addSubject)           // POST /subjects
	r.Get("/{classID}", h.listSubjects) // GET /subjects/10
}

func (h *SubjectHandler) addSubject(w http.ResponseWriter, r *http.Request) {
	var req service.AddSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if _, err := h.contentService.AddSubject(r.Context(), req); err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Subject added successfully"})
}

func (h *SubjectHandler) listSubjects(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "classID")
	caller := middleware.GetCallerFromContext(r.Context())

	subjects, err := h.contentService.ListSubjects(r.Context(), classID, caller)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subjects)
}
