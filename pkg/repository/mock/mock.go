package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hirevox/hirevox/pkg/models"
	"github.com/hirevox/hirevox/pkg/repository"
)

// In-memory repository doubles for handler and service tests. Error fields
// inject failures per operation.
type Mocks struct {
	Companies  *CompanyRepo
	Profiles   *ProfileRepo
	Jobs       *JobRepo
	Candidates *CandidateRepo
	Interviews *InterviewRepo
	Responses  *ResponseRepo
	Kits       *KitRepo
}

func NewMocks() *Mocks {
	m := &Mocks{
		Companies:  &CompanyRepo{byID: map[string]*models.Company{}},
		Profiles:   &ProfileRepo{byID: map[string]*models.Profile{}},
		Jobs:       &JobRepo{byID: map[string]*models.Job{}},
		Candidates: &CandidateRepo{byID: map[string]*models.Candidate{}},
		Interviews: &InterviewRepo{byID: map[string]*models.Interview{}},
		Responses:  &ResponseRepo{},
		Kits:       &KitRepo{byID: map[string]*models.InterviewKit{}},
	}
	m.Interviews.mocks = m
	return m
}

var seq int

func nextID(prefix string) string {
	seq++
	return fmt.Sprintf("%s-%d", prefix, seq)
}

type CompanyRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.Company
	CreateErr error
}

func (r *CompanyRepo) CreateCompany(ctx context.Context, c *models.Company) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	if cp.ID == "" {
		cp.ID = nextID("company")
	}
	r.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (r *CompanyRepo) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

type ProfileRepo struct {
	mu          sync.Mutex
	byID        map[string]*models.Profile
	CreateErr   error
	BackfillErr error
}

func (r *ProfileRepo) CreateProfile(ctx context.Context, p *models.Profile) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == p.Email {
			return "", repository.ErrDuplicateEmail
		}
	}
	cp := *p
	if cp.ID == "" {
		cp.ID = nextID("profile")
	}
	if cp.Role == "" {
		cp.Role = "recruiter"
	}
	r.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (r *ProfileRepo) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProfileRepo) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProfileRepo) SetProfileCompany(ctx context.Context, profileID, companyID string) error {
	if r.BackfillErr != nil {
		return r.BackfillErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[profileID]; ok {
		p.CompanyID = companyID
	}
	return nil
}

func (r *ProfileRepo) UpdateProfilePassword(ctx context.Context, profileID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[profileID]; ok {
		p.PasswordHash = passwordHash
	}
	return nil
}

type JobRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.Job
	CreateErr error
	ListErr   error
}

func (r *JobRepo) CreateJob(ctx context.Context, j *models.Job) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *j
	if cp.ID == "" {
		cp.ID = nextID("job")
	}
	if cp.Status == "" {
		cp.Status = "Active"
	}
	r.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (r *JobRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.byID[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (r *JobRepo) ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.byID {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

type CandidateRepo struct {
	mu              sync.Mutex
	byID            map[string]*models.Candidate
	CreateErr       error
	UpdateStatusErr error
}

func (r *CandidateRepo) CreateCandidate(ctx context.Context, c *models.Candidate) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	if cp.ID == "" {
		cp.ID = nextID("candidate")
	}
	if cp.Status == "" {
		cp.Status = models.CandidateApplied
	}
	r.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (r *CandidateRepo) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CandidateRepo) ListCandidatesByJob(ctx context.Context, jobID string) ([]models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Candidate
	for _, c := range r.byID {
		if c.JobID == jobID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out, nil
}

func (r *CandidateRepo) UpdateCandidateStatus(ctx context.Context, id, status string) error {
	if r.UpdateStatusErr != nil {
		return r.UpdateStatusErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		c.Status = status
	}
	return nil
}

type InterviewRepo struct {
	mu          sync.Mutex
	byID        map[string]*models.Interview
	mocks       *Mocks
	CreateErr   error
	StartErr    error
	CompleteErr error
}

func (r *InterviewRepo) CreateInterview(ctx context.Context, iv *models.Interview) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *iv
	if cp.ID == "" {
		cp.ID = nextID("interview")
	}
	if cp.Status == "" {
		cp.Status = models.InterviewScheduled
	}
	r.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (r *InterviewRepo) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv, ok := r.byID[id]; ok {
		cp := *iv
		return &cp, nil
	}
	return nil, nil
}

func (r *InterviewRepo) GetInterviewByToken(ctx context.Context, token string) (*models.InterviewDetail, error) {
	r.mu.Lock()
	var found *models.Interview
	for _, iv := range r.byID {
		if iv.InterviewToken == token && (found == nil || iv.Created < found.Created) {
			found = iv
		}
	}
	r.mu.Unlock()
	if found == nil {
		return nil, nil
	}

	d := &models.InterviewDetail{Interview: *found}
	if c, _ := r.mocks.Candidates.GetCandidate(ctx, found.CandidateID); c != nil {
		d.CandidateName = c.Name
		d.CandidateEmail = c.Email
	}
	if j, _ := r.mocks.Jobs.GetJob(ctx, found.JobID); j != nil {
		d.JobTitle = j.Title
		d.JobDescription = j.Description
	}
	if co, _ := r.mocks.Companies.GetCompany(ctx, found.CompanyID); co != nil {
		d.CompanyName = co.Name
	}
	return d, nil
}

func (r *InterviewRepo) MarkInterviewStarted(ctx context.Context, id string, at int64) error {
	if r.StartErr != nil {
		return r.StartErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv, ok := r.byID[id]; ok {
		iv.Status = models.InterviewInProgress
		iv.StartedAt = &at
	}
	return nil
}

func (r *InterviewRepo) MarkInterviewCompleted(ctx context.Context, id string, at int64) error {
	if r.CompleteErr != nil {
		return r.CompleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv, ok := r.byID[id]; ok {
		iv.Status = models.InterviewCompleted
		iv.CompletedAt = &at
	}
	return nil
}

func (r *InterviewRepo) ListInterviewsByStatus(ctx context.Context, companyID, status string) ([]models.InterviewDetail, error) {
	r.mu.Lock()
	var ivs []models.Interview
	for _, iv := range r.byID {
		if iv.CompanyID == companyID && iv.Status == status {
			ivs = append(ivs, *iv)
		}
	}
	r.mu.Unlock()

	var out []models.InterviewDetail
	for _, iv := range ivs {
		d, err := r.GetInterviewByToken(ctx, iv.InterviewToken)
		if err != nil || d == nil {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

type ResponseRepo struct {
	mu        sync.Mutex
	Stored    []models.InterviewResponse
	CreateErr error
}

func (r *ResponseRepo) CreateResponse(ctx context.Context, resp *models.InterviewResponse) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *resp
	if cp.ID == "" {
		cp.ID = nextID("response")
	}
	r.Stored = append(r.Stored, cp)
	return cp.ID, nil
}

func (r *ResponseRepo) ListResponsesByInterview(ctx context.Context, interviewID string) ([]models.InterviewResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewResponse
	for _, resp := range r.Stored {
		if resp.InterviewID == interviewID {
			out = append(out, resp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].QuestionIndex < out[k].QuestionIndex })
	return out, nil
}

type KitRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.InterviewKit
	CreateErr error
}

func (r *KitRepo) CreateKit(ctx context.Context, k *models.InterviewKit) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *k
	if cp.ID == "" {
		cp.ID = nextID("kit")
	}
	r.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (r *KitRepo) GetKit(ctx context.Context, id string) (*models.InterviewKit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.byID[id]; ok {
		cp := *k
		return &cp, nil
	}
	return nil, nil
}

func (r *KitRepo) ListKitsByCompany(ctx context.Context, companyID string) ([]models.InterviewKit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewKit
	for _, k := range r.byID {
		if k.CompanyID == companyID {
			out = append(out, *k)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *KitRepo) UpdateKit(ctx context.Context, k *models.InterviewKit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[k.ID]; !ok {
		return fmt.Errorf("kit not found: %s", k.ID)
	}
	cp := *k
	r.byID[k.ID] = &cp
	return nil
}

func (r *KitRepo) DeleteKit(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}
