package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/pkg/models"
)

type CandidatesHandler struct {
	svc *service.Service
}

func NewCandidatesHandler(svc *service.Service) *CandidatesHandler {
	return &CandidatesHandler{svc: svc}
}

type createCandidateRequest struct {
	Name       string          `json:"name" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	Phone      string          `json:"phone"`
	ResumeURL  string          `json:"resume_url"`
	CVAnalysis json.RawMessage `json:"cv_analysis"`
	MatchScore *int            `json:"match_score" validate:"omitempty,min=0,max=100"`
}

// CreateCandidate handles intake under a job. The cv_analysis blob is
// schema-checked before any write and normalized into the typed form.
func (h *CandidatesHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := h.svc.Job(r.Context(), jobID)
	if err != nil || job.CompanyID != companyID(r) {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, "name and a valid email are required", http.StatusBadRequest)
		return
	}
	if err := service.ValidateCVAnalysis(r.Context(), req.CVAnalysis); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	candidate := &models.Candidate{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		ResumeURL:  req.ResumeURL,
		MatchScore: req.MatchScore,
		Status:     models.CandidateApplied,
		JobID:      jobID,
		CompanyID:  job.CompanyID,
	}
	if len(req.CVAnalysis) > 0 {
		var analysis models.CVAnalysis
		if err := json.Unmarshal(req.CVAnalysis, &analysis); err != nil {
			writeError(w, "invalid cv_analysis", http.StatusBadRequest)
			return
		}
		candidate.CVAnalysis = &analysis
	}

	id, err := h.svc.CreateCandidate(r.Context(), candidate)
	if err != nil {
		writeError(w, "failed to create candidate", http.StatusInternalServerError)
		return
	}
	candidate.ID = id

	writeJSON(w, candidate, http.StatusCreated)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *CandidatesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, "status is required", http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Candidate(r.Context(), id)
	if err != nil || existing.CompanyID != companyID(r) {
		writeError(w, "candidate not found", http.StatusNotFound)
		return
	}

	candidate, err := h.svc.UpdateCandidateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			writeError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrNotFound):
			writeError(w, "candidate not found", http.StatusNotFound)
		default:
			writeError(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, candidate, http.StatusOK)
}

type inviteRequest struct {
	Questions []string `json:"questions"`
}

type inviteResponse struct {
	InterviewID    string `json:"interview_id"`
	InterviewToken string `json:"interview_token"`
}

// Invite runs the composite invite operation. A candidate already in
// "Interview Scheduled" or "Interview Completed" answers 409.
func (h *CandidatesHandler) Invite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.svc.Candidate(r.Context(), id)
	if err != nil || existing.CompanyID != companyID(r) {
		writeError(w, "candidate not found", http.StatusNotFound)
		return
	}

	var req inviteRequest
	if r.Body != nil {
		// body is optional; a missing or empty body means default questions
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	interview, err := h.svc.InviteToInterview(r.Context(), id, models.QuestionList(req.Questions))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, "candidate not found", http.StatusNotFound)
		case errors.Is(err, service.ErrAlreadyInvited):
			writeError(w, err.Error(), http.StatusConflict)
		default:
			writeError(w, "failed to create interview", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, inviteResponse{InterviewID: interview.ID, InterviewToken: interview.InterviewToken}, http.StatusCreated)
}
