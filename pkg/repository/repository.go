package repository

import (
	"context"
	"errors"

	"github.com/hirevox/hirevox/pkg/models"
)

// ErrDuplicateEmail is returned by CreateProfile when the email is already
// registered. The profiles table enforces email uniqueness.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type CompanyRepo interface {
	CreateCompany(ctx context.Context, c *models.Company) (string, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) (string, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	SetProfileCompany(ctx context.Context, profileID, companyID string) error
	UpdateProfilePassword(ctx context.Context, profileID, passwordHash string) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (string, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	// ListJobsByCompany returns jobs with derived candidate counts.
	ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error)
}

type CandidateRepo interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) (string, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	// ListCandidatesByJob returns candidates newest first.
	ListCandidatesByJob(ctx context.Context, jobID string) ([]models.Candidate, error)
	UpdateCandidateStatus(ctx context.Context, id, status string) error
}

type InterviewRepo interface {
	CreateInterview(ctx context.Context, iv *models.Interview) (string, error)
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	// GetInterviewByToken joins candidate, job, and company identity for the
	// token-scoped candidate surface.
	GetInterviewByToken(ctx context.Context, token string) (*models.InterviewDetail, error)
	MarkInterviewStarted(ctx context.Context, id string, at int64) error
	MarkInterviewCompleted(ctx context.Context, id string, at int64) error
	ListInterviewsByStatus(ctx context.Context, companyID, status string) ([]models.InterviewDetail, error)
}

type ResponseRepo interface {
	// CreateResponse is a blind insert: resubmitting a question index adds a
	// second row rather than upserting.
	CreateResponse(ctx context.Context, r *models.InterviewResponse) (string, error)
	ListResponsesByInterview(ctx context.Context, interviewID string) ([]models.InterviewResponse, error)
}

type KitRepo interface {
	CreateKit(ctx context.Context, k *models.InterviewKit) (string, error)
	GetKit(ctx context.Context, id string) (*models.InterviewKit, error)
	ListKitsByCompany(ctx context.Context, companyID string) ([]models.InterviewKit, error)
	UpdateKit(ctx context.Context, k *models.InterviewKit) error
	DeleteKit(ctx context.Context, id string) error
}
