package handler

import (
	"encoding/json"
	"k12_reviser_v2/internal/api/middleware"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	contentService *service.ContentService
}

func NewQuestionHandler(cs *service.ContentService) *QuestionHandler {
	return &QuestionHandler{contentService: cs}
}

// RegisterRoutes keeps the legacy paths exactly as existing clients call
// them, including the two upload routes for the two payload shapes.
func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/questions/upload", h.uploadFlat)           // legacy flat shape
	r.Post("/api/questions/upload", h.uploadStructured) // structured shape
	r.Get("/questions", h.listForStudent)
	r.Get("/questions/all", h.listAll)
	r.Get("/questions/uploaded-by/{teacherID}", h.listByUploader)
	r.Get("/topics/{subjectID}", h.listTopics)
}

func (h *QuestionHandler) uploadFlat(w http.ResponseWriter, r *http.Request) {
	var req service.FlatQuestionUpload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	questionID, err := h.contentService.UploadFlatQuestion(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message":     "Question uploaded successfully",
		"question_id": questionID,
	})
}

func (h *QuestionHandler) uploadStructured(w http.ResponseWriter, r *http.Request) {
	var req service.StructuredQuestionUpload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	questionID, err := h.contentService.UploadStructuredQuestion(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message":     "Question uploaded successfully",
		"question_id": questionID,
	})
}

func (h *QuestionHandler) listForStudent(w http.ResponseWriter, r *http.Request) {
	req := service.ListQuestionsRequest{
		ClassName: r.URL.Query().Get("class"),
		SubjectID: r.URL.Query().Get("subject_id"),
		TopicID:   r.URL.Query().Get("topic_id"),
		Type:      r.URL.Query().Get("type"),
	}
	caller := middleware.GetCallerFromContext(r.Context())

	questions, err := h.contentService.ListQuestionsForStudent(r.Context(), req, caller)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *QuestionHandler) listAll(w http.ResponseWriter, r *http.Request) {
	questions, err := h.contentService.ListAllQuestions(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) listByUploader(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherID")

	questions, err := h.contentService.ListQuestionsByUploader(r.Context(), teacherID)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) listTopics(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	caller := middleware.GetCallerFromContext(r.Context())

	topics, err := h.contentService.ListTopics(r.Context(), subjectID, caller)
	if err != nil {
		common.RespondWithDomainError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, topics)
}
