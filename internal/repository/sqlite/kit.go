package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hirevox/hirevox/pkg/models"
)

func (r *SQLiteRepo) CreateKit(ctx context.Context, k *models.InterviewKit) (string, error) {
	if k == nil {
		return "", fmt.Errorf("kit is nil")
	}

	id := k.ID
	if id == "" {
		id = newID()
	}
	questions, err := k.Questions.Encode()
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}

	ts := now()
	_, err = r.conn.Exec(ctx, `INSERT INTO interview_kits (id, company_id, name, questions, created, updated) VALUES (?, ?, ?, ?, ?, ?)`,
		id, k.CompanyID, k.Name, questions, ts, ts)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) GetKit(ctx context.Context, id string) (*models.InterviewKit, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, company_id, name, questions, created, updated FROM interview_kits WHERE id = ?`, id)
	k, err := scanKit(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return k, nil
}

func (r *SQLiteRepo) ListKitsByCompany(ctx context.Context, companyID string) ([]models.InterviewKit, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, company_id, name, questions, created, updated FROM interview_kits WHERE company_id = ? ORDER BY created ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InterviewKit
	for rows.Next() {
		k, err := scanKit(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *k)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateKit(ctx context.Context, k *models.InterviewKit) error {
	if k == nil {
		return fmt.Errorf("kit is nil")
	}

	questions, err := k.Questions.Encode()
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	_, err = r.conn.Exec(ctx, `UPDATE interview_kits SET name = ?, questions = ?, updated = ? WHERE id = ?`, k.Name, questions, now(), k.ID)
	return err
}

func (r *SQLiteRepo) DeleteKit(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM interview_kits WHERE id = ?`, id)
	return err
}

func scanKit(scan func(...any) error) (*models.InterviewKit, error) {
	var k models.InterviewKit
	var questions string
	if err := scan(&k.ID, &k.CompanyID, &k.Name, &questions, &k.Created, &k.Updated); err != nil {
		return nil, err
	}
	qs, err := models.DecodeQuestions(questions)
	if err != nil {
		return nil, fmt.Errorf("kit %s: %w", k.ID, err)
	}
	k.Questions = qs
	return &k, nil
}
