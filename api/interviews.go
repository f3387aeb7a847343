package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/pkg/models"
)

type InterviewsHandler struct {
	svc *service.Service
}

func NewInterviewsHandler(svc *service.Service) *InterviewsHandler {
	return &InterviewsHandler{svc: svc}
}

// ListCompleted returns the completed interviews for the recruiter's company
// with the length-heuristic performance score attached.
func (h *InterviewsHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.CompletedInterviews(r.Context(), companyID(r))
	if err != nil {
		writeError(w, "failed to list interviews", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []service.CompletedInterview{}
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *InterviewsHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	interview, err := h.svc.Interview(r.Context(), id)
	if err != nil || interview.CompanyID != companyID(r) {
		writeError(w, "interview not found", http.StatusNotFound)
		return
	}

	responses, err := h.svc.ResponsesByInterview(r.Context(), id)
	if err != nil {
		writeError(w, "failed to list responses", http.StatusInternalServerError)
		return
	}
	if responses == nil {
		responses = []models.InterviewResponse{}
	}

	writeJSON(w, responses, http.StatusOK)
}
