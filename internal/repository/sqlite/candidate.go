package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hirevox/hirevox/pkg/models"
)

func (r *SQLiteRepo) CreateCandidate(ctx context.Context, c *models.Candidate) (string, error) {
	if c == nil {
		return "", fmt.Errorf("candidate is nil")
	}

	id := c.ID
	if id == "" {
		id = newID()
	}
	status := c.Status
	if status == "" {
		status = models.CandidateApplied
	}

	var analysis any
	if c.CVAnalysis != nil {
		b, err := json.Marshal(c.CVAnalysis)
		if err != nil {
			return "", fmt.Errorf("marshal cv_analysis: %w", err)
		}
		analysis = string(b)
	}

	var matchScore any
	if c.MatchScore != nil {
		matchScore = *c.MatchScore
	}
	var appliedAt any
	if c.AppliedAt != nil {
		appliedAt = *c.AppliedAt
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO candidates (id, name, email, phone, resume_url, cv_analysis, match_score, status, applied_at, job_id, company_id, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Email, c.Phone, c.ResumeURL, analysis, matchScore, status, appliedAt, c.JobID, c.CompanyID, ts, ts)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, phone, resume_url, cv_analysis, match_score, status, applied_at, job_id, company_id, created, updated FROM candidates WHERE id = ?`, id)
	c, err := r.scanCandidate(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return c, nil
}

func (r *SQLiteRepo) ListCandidatesByJob(ctx context.Context, jobID string) ([]models.Candidate, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, email, phone, resume_url, cv_analysis, match_score, status, applied_at, job_id, company_id, created, updated FROM candidates WHERE job_id = ? ORDER BY created DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		c, err := r.scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCandidateStatus(ctx context.Context, id, status string) error {
	_, err := r.conn.Exec(ctx, `UPDATE candidates SET status = ?, updated = ? WHERE id = ?`, status, now(), id)
	return err
}

func (r *SQLiteRepo) scanCandidate(scan func(...any) error) (*models.Candidate, error) {
	var c models.Candidate
	var phone, resumeURL, analysis sql.NullString
	var matchScore sql.NullInt64
	var appliedAt sql.NullInt64
	if err := scan(&c.ID, &c.Name, &c.Email, &phone, &resumeURL, &analysis, &matchScore, &c.Status, &appliedAt, &c.JobID, &c.CompanyID, &c.Created, &c.Updated); err != nil {
		return nil, err
	}

	if phone.Valid {
		c.Phone = phone.String
	}
	if resumeURL.Valid {
		c.ResumeURL = resumeURL.String
	}
	if analysis.Valid && analysis.String != "" {
		var a models.CVAnalysis
		if err := json.Unmarshal([]byte(analysis.String), &a); err != nil {
			// a malformed blob must not make the row unreadable
			r.logger.Warn("candidate: unreadable cv_analysis", slog.String("id", c.ID), slog.Any("err", err))
		} else {
			c.CVAnalysis = &a
		}
	}
	if matchScore.Valid {
		v := int(matchScore.Int64)
		c.MatchScore = &v
	}
	if appliedAt.Valid {
		v := appliedAt.Int64
		c.AppliedAt = &v
	}

	return &c, nil
}
