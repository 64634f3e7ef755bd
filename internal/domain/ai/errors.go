package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Kind is the closed set of failure classes a model call can land in.
// Every kind is recoverable by the user retrying.
type Kind int

const (
	KindGeneric Kind = iota
	KindCredential
	KindRateLimit
)

func (k Kind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "generic"
	}
}

// Classify maps a model-call failure onto a Kind. The structured
// *openai.APIError is authoritative when present; substring matching on
// the message is kept only as a fallback for transport errors that
// never reached the API.
func Classify(err error) Kind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindCredential
		case http.StatusTooManyRequests:
			return KindRateLimit
		}
	}
	msg := err.Error()
	if strings.Contains(msg, "API key") {
		return KindCredential
	}
	if strings.Contains(strings.ToLower(msg), "rate limit") {
		return KindRateLimit
	}
	return KindGeneric
}
