package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "dedicated header",
			headers: map[string]string{"X-OpenAI-Key": "sk-abc"},
			want:    "sk-abc",
		},
		{
			name:    "bearer fallback",
			headers: map[string]string{"Authorization": "Bearer sk-def"},
			want:    "sk-def",
		},
		{
			name: "dedicated header wins over bearer",
			headers: map[string]string{
				"X-OpenAI-Key":  "sk-abc",
				"Authorization": "Bearer sk-def",
			},
			want: "sk-abc",
		},
		{
			name:    "non-bearer scheme is not a key",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    "",
		},
		{
			name:    "bare token without scheme is not a key",
			headers: map[string]string{"Authorization": "sk-raw"},
			want:    "",
		},
		{
			name:    "no headers",
			headers: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := ExtractAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = APIKeyFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
