package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hirevox/hirevox/pkg/models"
)

// CreateResponse is a blind insert: there is no uniqueness on
// (interview_id, question_index), so a resubmitted index adds a second row.
func (r *SQLiteRepo) CreateResponse(ctx context.Context, resp *models.InterviewResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("response is nil")
	}

	id := resp.ID
	if id == "" {
		id = newID()
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO interview_responses (id, interview_id, question_index, question_text, response_text, duration_seconds, audio_url, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, resp.InterviewID, resp.QuestionIndex, resp.QuestionText, resp.ResponseText, resp.DurationSeconds, nullable(resp.AudioURL), now())
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *SQLiteRepo) ListResponsesByInterview(ctx context.Context, interviewID string) ([]models.InterviewResponse, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, interview_id, question_index, question_text, response_text, duration_seconds, audio_url, created FROM interview_responses WHERE interview_id = ? ORDER BY question_index ASC`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InterviewResponse
	for rows.Next() {
		var resp models.InterviewResponse
		var responseText, audioURL sql.NullString
		if err := rows.Scan(&resp.ID, &resp.InterviewID, &resp.QuestionIndex, &resp.QuestionText, &responseText, &resp.DurationSeconds, &audioURL, &resp.Created); err != nil {
			return nil, err
		}
		if responseText.Valid {
			resp.ResponseText = responseText.String
		}
		if audioURL.Valid {
			resp.AudioURL = audioURL.String
		}
		out = append(out, resp)
	}

	return out, rows.Err()
}
