package ai

import "context"

// Request is one chat completion against the model capability. Images
// are ordered data URIs; order must match the screenshot ordinals named
// in the system instruction.
type Request struct {
	System      string
	Text        string
	Images      []string
	Temperature float32
	JSONOnly    bool
}

// Client is the model capability: accepts a multimodal chat request,
// returns a single text completion. The API key is per-request because
// the credential belongs to the caller, not to the service.
type Client interface {
	Complete(ctx context.Context, apiKey string, req Request) (string, error)
}
