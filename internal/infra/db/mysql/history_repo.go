package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/josephheron/devlens/internal/domain/history"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Save inserts an analysis history record
func (r *HistoryRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_history
  (id, session_id, prompt, screenshots, result_json, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  session_id=VALUES(session_id), prompt=VALUES(prompt), screenshots=VALUES(screenshots), result_json=VALUES(result_json);
`
	sessionID := stringOrDash(rec.SessionID)
	result := rec.ResultJSON
	if strings.TrimSpace(result) == "" {
		// result_json column requires valid JSON; use empty object
		result = "{}"
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, rec.ID, sessionID, rec.Prompt, rec.Screenshots, result, createdAt)
	return err
}

// Paginate returns a page of history records ordered by created_at desc
func (r *HistoryRepository) Paginate(ctx context.Context, sessionID string, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, session_id, prompt, screenshots, result_json, created_at
FROM analysis_history
WHERE session_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, sessionID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var created time.Time
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Prompt, &rec.Screenshots, &rec.ResultJSON, &created); err != nil {
			return nil, err
		}
		rec.CreatedAt = created
		out = append(out, &rec)
	}
	return out, rows.Err()
}
