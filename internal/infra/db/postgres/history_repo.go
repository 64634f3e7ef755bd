package postgres

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

// Save inserts or updates an analysis history record
func (r *HistoryRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_history
  (id, session_id, prompt, screenshots, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  session_id=EXCLUDED.session_id,
  prompt=EXCLUDED.prompt,
  screenshots=EXCLUDED.screenshots,
  result_json=EXCLUDED.result_json;
`
	sessionID := stringOrDash(rec.SessionID)
	result := rec.ResultJSON
	if strings.TrimSpace(result) == "" {
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
WHERE session_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
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

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
