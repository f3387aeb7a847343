package models

// Domain models matching the database schema in db/migrations/0001_init.sql.
// All ids are UUID strings; timestamps are Unix seconds.

type Company struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name" validate:"required"`
	Email   string `json:"email,omitempty" db:"email"`
	Created int64  `json:"created" db:"created"`
	Updated int64  `json:"updated" db:"updated"`
}

type Profile struct {
	ID           string `json:"id" db:"id"`
	CompanyID    string `json:"company_id,omitempty" db:"company_id"`
	FirstName    string `json:"first_name,omitempty" db:"first_name"`
	LastName     string `json:"last_name,omitempty" db:"last_name"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Role         string `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

type Job struct {
	ID           string `json:"id" db:"id"`
	Title        string `json:"title" db:"title" validate:"required"`
	Description  string `json:"description" db:"description" validate:"required"`
	Requirements string `json:"requirements,omitempty" db:"requirements"`
	Location     string `json:"location,omitempty" db:"location"`
	SalaryRange  string `json:"salary_range,omitempty" db:"salary_range"`
	Status       string `json:"status" db:"status"`
	CompanyID    string `json:"company_id" db:"company_id"`
	CreatedBy    string `json:"created_by,omitempty" db:"created_by"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`

	// Derived counts for the dashboard view.
	TotalCandidates       int `json:"total_candidates"`
	ShortlistedCandidates int `json:"shortlisted_candidates"`
}

type Candidate struct {
	ID         string      `json:"id" db:"id"`
	Name       string      `json:"name" db:"name" validate:"required"`
	Email      string      `json:"email" db:"email" validate:"required,email"`
	Phone      string      `json:"phone,omitempty" db:"phone"`
	ResumeURL  string      `json:"resume_url,omitempty" db:"resume_url"`
	CVAnalysis *CVAnalysis `json:"cv_analysis,omitempty" db:"cv_analysis"`
	MatchScore *int        `json:"match_score,omitempty" db:"match_score" validate:"omitempty,min=0,max=100"`
	Status     string      `json:"status" db:"status"`
	AppliedAt  *int64      `json:"applied_at,omitempty" db:"applied_at"`
	JobID      string      `json:"job_id" db:"job_id"`
	CompanyID  string      `json:"company_id" db:"company_id"`
	Created    int64       `json:"created" db:"created"`
	Updated    int64       `json:"updated" db:"updated"`
}

type Interview struct {
	ID             string       `json:"id" db:"id"`
	CandidateID    string       `json:"candidate_id" db:"candidate_id"`
	JobID          string       `json:"job_id" db:"job_id"`
	CompanyID      string       `json:"company_id" db:"company_id"`
	InterviewToken string       `json:"interview_token" db:"interview_token"`
	Questions      QuestionList `json:"questions" db:"questions"`
	Status         string       `json:"status" db:"status"`
	ScheduledAt    *int64       `json:"scheduled_at,omitempty" db:"scheduled_at"`
	StartedAt      *int64       `json:"started_at,omitempty" db:"started_at"`
	CompletedAt    *int64       `json:"completed_at,omitempty" db:"completed_at"`
	Created        int64        `json:"created" db:"created"`
	Updated        int64        `json:"updated" db:"updated"`
}

type InterviewResponse struct {
	ID              string `json:"id" db:"id"`
	InterviewID     string `json:"interview_id" db:"interview_id"`
	QuestionIndex   int    `json:"question_index" db:"question_index"`
	QuestionText    string `json:"question_text" db:"question_text"`
	ResponseText    string `json:"response_text,omitempty" db:"response_text"`
	DurationSeconds int    `json:"duration_seconds" db:"duration_seconds"`
	AudioURL        string `json:"audio_url,omitempty" db:"audio_url"`
	Created         int64  `json:"created" db:"created"`
}

type InterviewKit struct {
	ID        string       `json:"id" db:"id"`
	CompanyID string       `json:"company_id" db:"company_id"`
	Name      string       `json:"name" db:"name" validate:"required"`
	Questions QuestionList `json:"questions" db:"questions" validate:"required,min=1"`
	Created   int64        `json:"created" db:"created"`
	Updated   int64        `json:"updated" db:"updated"`
}

// InterviewDetail is the token-scoped read used by the candidate-facing flow:
// the interview joined with the identity shown on the welcome screen.
type InterviewDetail struct {
	Interview
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	CompanyName    string `json:"company_name"`
}
