package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/josephheron/devlens/internal/domain/faults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// Save inserts a fault record; the id column is auto-increment
func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
	const q = `
INSERT INTO analysis_faults
  (session_id, stage, kind, message, created_at)
VALUES (?,?,?,?,?);
`
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q, stringOrDash(f.SessionID), f.Stage, f.Kind, f.Message, createdAt)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		f.ID = id
	}
	return nil
}

// ListBySession returns the most recent faults for a session
func (r *FaultRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.Fault, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
SELECT id, session_id, stage, kind, message, created_at
FROM analysis_faults
WHERE session_id=?
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Fault
	for rows.Next() {
		var f domain.Fault
		var created time.Time
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Stage, &f.Kind, &f.Message, &created); err != nil {
			return nil, err
		}
		f.CreatedAt = created
		out = append(out, &f)
	}
	return out, rows.Err()
}
