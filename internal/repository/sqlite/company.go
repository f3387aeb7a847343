package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hirevox/hirevox/pkg/models"
)

func (r *SQLiteRepo) CreateCompany(ctx context.Context, c *models.Company) (string, error) {
	if c == nil {
		return "", fmt.Errorf("company is nil")
	}

	id := c.ID
	if id == "" {
		id = newID()
	}
	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO companies (id, name, email, created, updated) VALUES (?, ?, ?, ?, ?)`,
		id, c.Name, c.Email, ts, ts)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, created, updated FROM companies WHERE id = ?`, id)
	var c models.Company
	var email sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &c.Created, &c.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if email.Valid {
		c.Email = email.String
	}

	return &c, nil
}
