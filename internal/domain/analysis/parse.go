package analysis

import (
	"encoding/json"
	"fmt"
)

// Parse decodes the model's raw text into a Result. The whole reply
// must be one JSON document; trailing prose after the closing brace is
// a parse failure, not a partial success. On failure the caller must
// fall back to showing the raw text; a malformed document is never
// partially trusted.
func Parse(raw string) (*Result, error) {
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &res, nil
}
