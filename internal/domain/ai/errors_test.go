package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStructured(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: KindCredential},
		{name: "forbidden", status: http.StatusForbidden, want: KindCredential},
		{name: "too many requests", status: http.StatusTooManyRequests, want: KindRateLimit},
		{name: "server error", status: http.StatusInternalServerError, want: KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("create chat completion: %w", &openai.APIError{
				HTTPStatusCode: tt.status,
				Message:        "upstream said no",
			})
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestClassifySubstringFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "api key mention", err: errors.New("Incorrect API key provided"), want: KindCredential},
		{name: "rate limit lower", err: errors.New("you hit a rate limit"), want: KindRateLimit},
		{name: "rate limit mixed case", err: errors.New("Rate Limit reached for requests"), want: KindRateLimit},
		{name: "anything else", err: errors.New("connection reset by peer"), want: KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "credential", KindCredential.String())
	assert.Equal(t, "rate_limit", KindRateLimit.String())
	assert.Equal(t, "generic", KindGeneric.String())
}
