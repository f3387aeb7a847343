package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hirevox/hirevox/pkg/models"
)

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (string, error) {
	if j == nil {
		return "", fmt.Errorf("job is nil")
	}

	id := j.ID
	if id == "" {
		id = newID()
	}
	status := j.Status
	if status == "" {
		status = "Active"
	}
	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO jobs (id, title, description, requirements, location, salary_range, status, company_id, created_by, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, j.Title, j.Description, j.Requirements, j.Location, j.SalaryRange, status, j.CompanyID, nullable(j.CreatedBy), ts, ts)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, title, description, requirements, location, salary_range, status, company_id, created_by, created, updated FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return j, nil
}

// ListJobsByCompany returns the company's jobs newest first, with the derived
// candidate counts the dashboard shows per job.
func (r *SQLiteRepo) ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT j.id, j.title, j.description, j.requirements, j.location, j.salary_range, j.status, j.company_id, j.created_by, j.created, j.updated,
		(SELECT COUNT(*) FROM candidates c WHERE c.job_id = j.id) AS total_candidates,
		(SELECT COUNT(*) FROM candidates c WHERE c.job_id = j.id AND c.status = 'Shortlisted') AS shortlisted_candidates
		FROM jobs j WHERE j.company_id = ? ORDER BY j.created DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJobWithCounts(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

func scanJob(scan func(...any) error) (*models.Job, error) {
	var j models.Job
	var requirements, location, salary, createdBy sql.NullString
	if err := scan(&j.ID, &j.Title, &j.Description, &requirements, &location, &salary, &j.Status, &j.CompanyID, &createdBy, &j.Created, &j.Updated); err != nil {
		return nil, err
	}
	applyJobNullables(&j, requirements, location, salary, createdBy)
	return &j, nil
}

func scanJobWithCounts(scan func(...any) error) (*models.Job, error) {
	var j models.Job
	var requirements, location, salary, createdBy sql.NullString
	if err := scan(&j.ID, &j.Title, &j.Description, &requirements, &location, &salary, &j.Status, &j.CompanyID, &createdBy, &j.Created, &j.Updated, &j.TotalCandidates, &j.ShortlistedCandidates); err != nil {
		return nil, err
	}
	applyJobNullables(&j, requirements, location, salary, createdBy)
	return &j, nil
}

func applyJobNullables(j *models.Job, requirements, location, salary, createdBy sql.NullString) {
	if requirements.Valid {
		j.Requirements = requirements.String
	}
	if location.Valid {
		j.Location = location.String
	}
	if salary.Valid {
		j.SalaryRange = salary.String
	}
	if createdBy.Valid {
		j.CreatedBy = createdBy.String
	}
}
