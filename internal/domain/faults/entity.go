package faults

import "time"

// Fault is a persisted record of a classified model-call failure.
type Fault struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"` // analyse | followup
	Kind      string    `json:"kind"`  // credential | rate_limit | generic
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
