package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/pkg/models"
)

type JobsHandler struct {
	svc *service.Service
}

func NewJobsHandler(svc *service.Service) *JobsHandler {
	return &JobsHandler{svc: svc}
}

type createJobRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	SalaryRange  string `json:"salary_range"`
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, "title and description are required", http.StatusBadRequest)
		return
	}

	job := &models.Job{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		SalaryRange:  req.SalaryRange,
		Status:       "Active",
		CompanyID:    companyID(r),
		CreatedBy:    profileID(r),
	}
	id, err := h.svc.CreateJob(r.Context(), job)
	if err != nil {
		writeError(w, "failed to create job", http.StatusInternalServerError)
		return
	}
	job.ID = id

	writeJSON(w, job, http.StatusCreated)
}

func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.Jobs(r.Context(), companyID(r))
	if err != nil {
		writeError(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, jobs, http.StatusOK)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, err := h.svc.Job(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, "job not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to get job", http.StatusInternalServerError)
		return
	}
	if job.CompanyID != companyID(r) {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) ListJobCandidates(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, err := h.svc.Job(r.Context(), id)
	if err != nil || job.CompanyID != companyID(r) {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	candidates, err := h.svc.CandidatesByJob(r.Context(), id)
	if err != nil {
		writeError(w, "failed to list candidates", http.StatusInternalServerError)
		return
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}

	writeJSON(w, candidates, http.StatusOK)
}
