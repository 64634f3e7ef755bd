package history

import "context"

// Repository port for persisting and querying past analyses
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Paginate(ctx context.Context, sessionID string, page, pageSize int) ([]*Record, error)
}
