package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/pkg/models"
)

// QuestionEngine drafts interview questions for a position. Implemented by
// the Ollama client; nil when no engine is configured.
type QuestionEngine interface {
	GenerateQuestions(ctx context.Context, title, description string, count int) ([]string, error)
}

type KitsHandler struct {
	svc    *service.Service
	engine QuestionEngine
}

func NewKitsHandler(svc *service.Service, engine QuestionEngine) *KitsHandler {
	return &KitsHandler{svc: svc, engine: engine}
}

type kitRequest struct {
	Name      string   `json:"name" validate:"required"`
	Questions []string `json:"questions" validate:"required,min=1"`
}

func (h *KitsHandler) CreateKit(w http.ResponseWriter, r *http.Request) {
	var req kitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, "name and at least one question are required", http.StatusBadRequest)
		return
	}

	kit := &models.InterviewKit{
		CompanyID: companyID(r),
		Name:      req.Name,
		Questions: models.QuestionList(req.Questions),
	}
	id, err := h.svc.CreateKit(r.Context(), kit)
	if err != nil {
		writeError(w, "failed to create kit", http.StatusInternalServerError)
		return
	}
	kit.ID = id

	writeJSON(w, kit, http.StatusCreated)
}

func (h *KitsHandler) ListKits(w http.ResponseWriter, r *http.Request) {
	kits, err := h.svc.Kits(r.Context(), companyID(r))
	if err != nil {
		writeError(w, "failed to list kits", http.StatusInternalServerError)
		return
	}
	if kits == nil {
		kits = []models.InterviewKit{}
	}

	writeJSON(w, kits, http.StatusOK)
}

func (h *KitsHandler) UpdateKit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req kitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, "name and at least one question are required", http.StatusBadRequest)
		return
	}

	kit := &models.InterviewKit{
		ID:        id,
		CompanyID: companyID(r),
		Name:      req.Name,
		Questions: models.QuestionList(req.Questions),
	}
	if err := h.svc.UpdateKit(r.Context(), kit); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, "kit not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to update kit", http.StatusInternalServerError)
		return
	}

	writeJSON(w, kit, http.StatusOK)
}

func (h *KitsHandler) DeleteKit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.DeleteKit(r.Context(), companyID(r), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, "kit not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to delete kit", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type generateKitRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// GenerateKit drafts questions with the configured engine. The draft is not
// persisted; the recruiter reviews it and saves a kit explicitly.
func (h *KitsHandler) GenerateKit(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeError(w, "question engine is not configured", http.StatusServiceUnavailable)
		return
	}

	var req generateKitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}

	questions, err := h.engine.GenerateQuestions(r.Context(), req.Title, req.Description, req.Count)
	if err != nil {
		logger.Error("question generation failed", "err", err)
		writeError(w, "question generation failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]any{"questions": questions}, http.StatusOK)
}
