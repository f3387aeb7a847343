package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hirevox/hirevox/pkg/models"
	"github.com/hirevox/hirevox/pkg/repository"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) (string, error) {
	if p == nil {
		return "", fmt.Errorf("profile is nil")
	}

	id := p.ID
	if id == "" {
		id = newID()
	}
	role := p.Role
	if role == "" {
		role = "recruiter"
	}
	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO profiles (id, company_id, first_name, last_name, email, role, password_hash, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nullable(p.CompanyID), p.FirstName, p.LastName, p.Email, role, p.PasswordHash, ts, ts)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.email") {
			return "", repository.ErrDuplicateEmail
		}
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.scanProfile(ctx, `SELECT id, company_id, first_name, last_name, email, role, password_hash, created, updated FROM profiles WHERE id = ?`, id)
}

func (r *SQLiteRepo) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.scanProfile(ctx, `SELECT id, company_id, first_name, last_name, email, role, password_hash, created, updated FROM profiles WHERE email = ?`, email)
}

func (r *SQLiteRepo) scanProfile(ctx context.Context, query string, arg any) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, query, arg)
	var p models.Profile
	var companyID, first, last sql.NullString
	if err := row.Scan(&p.ID, &companyID, &first, &last, &p.Email, &p.Role, &p.PasswordHash, &p.Created, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if companyID.Valid {
		p.CompanyID = companyID.String
	}
	if first.Valid {
		p.FirstName = first.String
	}
	if last.Valid {
		p.LastName = last.String
	}

	return &p, nil
}

func (r *SQLiteRepo) SetProfileCompany(ctx context.Context, profileID, companyID string) error {
	_, err := r.conn.Exec(ctx, `UPDATE profiles SET company_id = ?, updated = ? WHERE id = ?`, companyID, now(), profileID)
	return err
}

func (r *SQLiteRepo) UpdateProfilePassword(ctx context.Context, profileID, passwordHash string) error {
	_, err := r.conn.Exec(ctx, `UPDATE profiles SET password_hash = ?, updated = ? WHERE id = ?`, passwordHash, now(), profileID)
	return err
}

// nullable maps the empty string to NULL so optional foreign keys stay unset.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
