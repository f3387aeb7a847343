package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hirevox/hirevox/pkg/models"
)

func (r *SQLiteRepo) CreateInterview(ctx context.Context, iv *models.Interview) (string, error) {
	if iv == nil {
		return "", fmt.Errorf("interview is nil")
	}

	id := iv.ID
	if id == "" {
		id = newID()
	}
	status := iv.Status
	if status == "" {
		status = models.InterviewScheduled
	}
	questions, err := iv.Questions.Encode()
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}

	var scheduledAt any
	if iv.ScheduledAt != nil {
		scheduledAt = *iv.ScheduledAt
	}

	ts := now()
	_, err = r.conn.Exec(ctx, `INSERT INTO interviews (id, candidate_id, job_id, company_id, interview_token, questions, status, scheduled_at, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, iv.CandidateID, iv.JobID, iv.CompanyID, iv.InterviewToken, questions, status, scheduledAt, ts, ts)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, candidate_id, job_id, company_id, interview_token, questions, status, scheduled_at, started_at, completed_at, created, updated FROM interviews WHERE id = ?`, id)
	iv, err := scanInterview(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return iv, nil
}

// GetInterviewByToken is the token-scoped lookup backing the candidate
// surface. Tokens carry no uniqueness constraint; the oldest match wins.
func (r *SQLiteRepo) GetInterviewByToken(ctx context.Context, token string) (*models.InterviewDetail, error) {
	row := r.conn.QueryRow(ctx, `SELECT i.id, i.candidate_id, i.job_id, i.company_id, i.interview_token, i.questions, i.status, i.scheduled_at, i.started_at, i.completed_at, i.created, i.updated,
		c.name, c.email, j.title, j.description, co.name
		FROM interviews i
		JOIN candidates c ON c.id = i.candidate_id
		JOIN jobs j ON j.id = i.job_id
		JOIN companies co ON co.id = i.company_id
		WHERE i.interview_token = ?
		ORDER BY i.created ASC LIMIT 1`, token)

	d, err := scanInterviewDetail(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return d, nil
}

func (r *SQLiteRepo) MarkInterviewStarted(ctx context.Context, id string, at int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE interviews SET status = ?, started_at = ?, updated = ? WHERE id = ?`,
		models.InterviewInProgress, at, now(), id)
	return err
}

func (r *SQLiteRepo) MarkInterviewCompleted(ctx context.Context, id string, at int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE interviews SET status = ?, completed_at = ?, updated = ? WHERE id = ?`,
		models.InterviewCompleted, at, now(), id)
	return err
}

func (r *SQLiteRepo) ListInterviewsByStatus(ctx context.Context, companyID, status string) ([]models.InterviewDetail, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT i.id, i.candidate_id, i.job_id, i.company_id, i.interview_token, i.questions, i.status, i.scheduled_at, i.started_at, i.completed_at, i.created, i.updated,
		c.name, c.email, j.title, j.description, co.name
		FROM interviews i
		JOIN candidates c ON c.id = i.candidate_id
		JOIN jobs j ON j.id = i.job_id
		JOIN companies co ON co.id = i.company_id
		WHERE i.company_id = ? AND i.status = ?
		ORDER BY i.completed_at DESC`, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InterviewDetail
	for rows.Next() {
		d, err := scanInterviewDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}

	return out, rows.Err()
}

func scanInterview(scan func(...any) error) (*models.Interview, error) {
	var iv models.Interview
	var questions string
	var scheduledAt, startedAt, completedAt sql.NullInt64
	if err := scan(&iv.ID, &iv.CandidateID, &iv.JobID, &iv.CompanyID, &iv.InterviewToken, &questions, &iv.Status, &scheduledAt, &startedAt, &completedAt, &iv.Created, &iv.Updated); err != nil {
		return nil, err
	}
	if err := applyInterviewColumns(&iv, questions, scheduledAt, startedAt, completedAt); err != nil {
		return nil, err
	}
	return &iv, nil
}

func scanInterviewDetail(scan func(...any) error) (*models.InterviewDetail, error) {
	var d models.InterviewDetail
	var questions string
	var scheduledAt, startedAt, completedAt sql.NullInt64
	if err := scan(&d.ID, &d.CandidateID, &d.JobID, &d.CompanyID, &d.InterviewToken, &questions, &d.Status, &scheduledAt, &startedAt, &completedAt, &d.Created, &d.Updated,
		&d.CandidateName, &d.CandidateEmail, &d.JobTitle, &d.JobDescription, &d.CompanyName); err != nil {
		return nil, err
	}
	if err := applyInterviewColumns(&d.Interview, questions, scheduledAt, startedAt, completedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func applyInterviewColumns(iv *models.Interview, questions string, scheduledAt, startedAt, completedAt sql.NullInt64) error {
	qs, err := models.DecodeQuestions(questions)
	if err != nil {
		return fmt.Errorf("interview %s: %w", iv.ID, err)
	}
	iv.Questions = qs
	if scheduledAt.Valid {
		v := scheduledAt.Int64
		iv.ScheduledAt = &v
	}
	if startedAt.Valid {
		v := startedAt.Int64
		iv.StartedAt = &v
	}
	if completedAt.Valid {
		v := completedAt.Int64
		iv.CompletedAt = &v
	}
	return nil
}
