package history

import "time"

// RecordID identifier type
type RecordID string

// Record is one completed analysis persisted for later retrieval. The
// result is kept as the raw JSON string the model returned; the
// credential is never part of the record.
type Record struct {
	ID          RecordID  `json:"id"`
	SessionID   string    `json:"session_id"`
	Prompt      string    `json:"prompt"`
	Screenshots int       `json:"screenshots"`
	ResultJSON  string    `json:"result_json"`
	CreatedAt   time.Time `json:"created_at"`
}
