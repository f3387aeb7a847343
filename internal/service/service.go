package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/hirevox/hirevox/pkg/models"
	"github.com/hirevox/hirevox/pkg/repository"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidStatus  = errors.New("invalid candidate status")
	ErrAlreadyInvited = errors.New("candidate already invited to interview")
)

// Repos bundles the repository contracts the service depends on.
type Repos struct {
	Companies  repository.CompanyRepo
	Profiles   repository.ProfileRepo
	Jobs       repository.JobRepo
	Candidates repository.CandidateRepo
	Interviews repository.InterviewRepo
	Responses  repository.ResponseRepo
	Kits       repository.KitRepo
}

// Service is the typed read/write layer over the repositories. Reads go
// through a process-wide cache keyed by the entity ids they depend on; each
// write invalidates exactly the cached views it can affect. There are no
// optimistic updates: a failed write leaves the cache untouched.
type Service struct {
	repos  Repos
	cache  *gocache.Cache
	logger *slog.Logger
	now    func() int64
}

func New(repos Repos, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repos:  repos,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
		logger: logger,
		now:    func() int64 { return time.Now().UTC().Unix() },
	}
}

// Cache keys. Jobs carry derived candidate counts, so candidate writes
// invalidate the jobs view as well.
func jobsKey(companyID string) string        { return "jobs:" + companyID }
func candidatesKey(jobID string) string      { return "candidates:" + jobID }
func interviewKey(token string) string       { return "interview:" + token }
func responsesKey(interviewID string) string { return "responses:" + interviewID }
func completedKey(companyID string) string   { return "completed:" + companyID }
func kitsKey(companyID string) string        { return "kits:" + companyID }

// NewInterviewToken builds the candidate-access capability: a millisecond
// timestamp plus a random suffix. Uniqueness is probabilistic; the store does
// not enforce it.
func NewInterviewToken() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("interview_%d_%s", time.Now().UnixMilli(), suffix)
}

func (s *Service) Jobs(ctx context.Context, companyID string) ([]models.Job, error) {
	key := jobsKey(companyID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.Job), nil
	}
	jobs, err := s.repos.Jobs.ListJobsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, jobs)
	return jobs, nil
}

func (s *Service) Job(ctx context.Context, id string) (*models.Job, error) {
	j, err := s.repos.Jobs.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrNotFound
	}
	return j, nil
}

func (s *Service) CreateJob(ctx context.Context, j *models.Job) (string, error) {
	id, err := s.repos.Jobs.CreateJob(ctx, j)
	if err != nil {
		return "", err
	}
	s.cache.Delete(jobsKey(j.CompanyID))
	return id, nil
}

func (s *Service) Candidate(ctx context.Context, id string) (*models.Candidate, error) {
	c, err := s.repos.Candidates.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Service) CandidatesByJob(ctx context.Context, jobID string) ([]models.Candidate, error) {
	key := candidatesKey(jobID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.Candidate), nil
	}
	cs, err := s.repos.Candidates.ListCandidatesByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, cs)
	return cs, nil
}

func (s *Service) CreateCandidate(ctx context.Context, c *models.Candidate) (string, error) {
	if c.AppliedAt == nil {
		at := s.now()
		c.AppliedAt = &at
	}
	id, err := s.repos.Candidates.CreateCandidate(ctx, c)
	if err != nil {
		return "", err
	}
	s.cache.Delete(candidatesKey(c.JobID))
	s.cache.Delete(jobsKey(c.CompanyID))
	return id, nil
}

// UpdateCandidateStatus writes an enum-checked status and returns the updated
// candidate. The candidate list for the job and the jobs view (derived
// counts) are invalidated on success.
func (s *Service) UpdateCandidateStatus(ctx context.Context, id, status string) (*models.Candidate, error) {
	if !models.ValidCandidateStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	c, err := s.repos.Candidates.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if err := s.repos.Candidates.UpdateCandidateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	s.cache.Delete(candidatesKey(c.JobID))
	s.cache.Delete(jobsKey(c.CompanyID))
	return c, nil
}

// InviteToInterview is the composite invite operation: generate a token, read
// the candidate's company, insert the interview row, then flip the candidate
// status. The three writes are not a transaction; a failure after the
// interview insert leaves the candidate status stale relative to the created
// interview.
func (s *Service) InviteToInterview(ctx context.Context, candidateID string, questions models.QuestionList) (*models.Interview, error) {
	c, err := s.repos.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.Status == models.CandidateInterviewScheduled || c.Status == models.CandidateInterviewCompleted {
		return nil, fmt.Errorf("%w: status %q", ErrAlreadyInvited, c.Status)
	}

	if len(questions) == 0 {
		questions = DefaultQuestions()
	}

	at := s.now()
	iv := &models.Interview{
		CandidateID:    candidateID,
		JobID:          c.JobID,
		CompanyID:      c.CompanyID,
		InterviewToken: NewInterviewToken(),
		Questions:      questions,
		Status:         models.InterviewScheduled,
		ScheduledAt:    &at,
	}
	id, err := s.repos.Interviews.CreateInterview(ctx, iv)
	if err != nil {
		return nil, err
	}
	iv.ID = id

	if err := s.repos.Candidates.UpdateCandidateStatus(ctx, candidateID, models.CandidateInterviewScheduled); err != nil {
		// the interview row already exists; the caller sees the failure and
		// the candidate status stays stale
		return nil, fmt.Errorf("interview %s created but candidate status update failed: %w", id, err)
	}

	s.cache.Delete(candidatesKey(c.JobID))
	s.cache.Delete(jobsKey(c.CompanyID))
	return iv, nil
}

func (s *Service) Interview(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := s.repos.Interviews.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, ErrNotFound
	}
	return iv, nil
}

func (s *Service) InterviewByToken(ctx context.Context, token string) (*models.InterviewDetail, error) {
	key := interviewKey(token)
	if v, ok := s.cache.Get(key); ok {
		d := v.(models.InterviewDetail)
		return &d, nil
	}
	d, err := s.repos.Interviews.GetInterviewByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	s.cache.SetDefault(key, *d)
	return d, nil
}

// StartInterview marks the interview In Progress with started_at = at.
func (s *Service) StartInterview(ctx context.Context, id, token string, at int64) error {
	if err := s.repos.Interviews.MarkInterviewStarted(ctx, id, at); err != nil {
		return err
	}
	s.cache.Delete(interviewKey(token))
	return nil
}

// SubmitResponse persists one response row. Blind insert: a duplicate
// question index adds a second row.
func (s *Service) SubmitResponse(ctx context.Context, r *models.InterviewResponse) error {
	if _, err := s.repos.Responses.CreateResponse(ctx, r); err != nil {
		return err
	}
	s.cache.Delete(responsesKey(r.InterviewID))
	return nil
}

// CompleteInterview marks the interview Completed and flips the candidate to
// "Interview Completed".
func (s *Service) CompleteInterview(ctx context.Context, iv *models.Interview, at int64) error {
	if err := s.repos.Interviews.MarkInterviewCompleted(ctx, iv.ID, at); err != nil {
		return err
	}
	if err := s.repos.Candidates.UpdateCandidateStatus(ctx, iv.CandidateID, models.CandidateInterviewCompleted); err != nil {
		return err
	}
	s.cache.Delete(interviewKey(iv.InterviewToken))
	s.cache.Delete(candidatesKey(iv.JobID))
	s.cache.Delete(jobsKey(iv.CompanyID))
	s.cache.Delete(completedKey(iv.CompanyID))
	return nil
}

// CompletedInterview is an analytics row: the interview detail plus the
// length-heuristic performance score.
type CompletedInterview struct {
	models.InterviewDetail
	PerformanceScore int `json:"performance_score"`
	ResponseCount    int `json:"response_count"`
}

func (s *Service) CompletedInterviews(ctx context.Context, companyID string) ([]CompletedInterview, error) {
	key := completedKey(companyID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]CompletedInterview), nil
	}

	list, err := s.repos.Interviews.ListInterviewsByStatus(ctx, companyID, models.InterviewCompleted)
	if err != nil {
		return nil, err
	}

	out := make([]CompletedInterview, 0, len(list))
	for _, d := range list {
		responses, err := s.repos.Responses.ListResponsesByInterview(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, CompletedInterview{
			InterviewDetail:  d,
			PerformanceScore: PerformanceScore(responses),
			ResponseCount:    len(responses),
		})
	}
	s.cache.SetDefault(key, out)
	return out, nil
}

func (s *Service) ResponsesByInterview(ctx context.Context, interviewID string) ([]models.InterviewResponse, error) {
	key := responsesKey(interviewID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.InterviewResponse), nil
	}
	responses, err := s.repos.Responses.ListResponsesByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, responses)
	return responses, nil
}

func (s *Service) Kits(ctx context.Context, companyID string) ([]models.InterviewKit, error) {
	key := kitsKey(companyID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.InterviewKit), nil
	}
	kits, err := s.repos.Kits.ListKitsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, kits)
	return kits, nil
}

func (s *Service) CreateKit(ctx context.Context, k *models.InterviewKit) (string, error) {
	id, err := s.repos.Kits.CreateKit(ctx, k)
	if err != nil {
		return "", err
	}
	s.cache.Delete(kitsKey(k.CompanyID))
	return id, nil
}

func (s *Service) UpdateKit(ctx context.Context, k *models.InterviewKit) error {
	existing, err := s.repos.Kits.GetKit(ctx, k.ID)
	if err != nil {
		return err
	}
	if existing == nil || existing.CompanyID != k.CompanyID {
		return ErrNotFound
	}
	if err := s.repos.Kits.UpdateKit(ctx, k); err != nil {
		return err
	}
	s.cache.Delete(kitsKey(k.CompanyID))
	return nil
}

func (s *Service) DeleteKit(ctx context.Context, companyID, id string) error {
	existing, err := s.repos.Kits.GetKit(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil || existing.CompanyID != companyID {
		return ErrNotFound
	}
	if err := s.repos.Kits.DeleteKit(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(kitsKey(companyID))
	return nil
}
