package images

import (
	"context"
	"os"
)

// FileSource reads screenshot bytes from the local filesystem. Refs are
// plain paths, typically temp files the HTTP layer wrote for one
// request.
type FileSource struct{}

func (FileSource) Read(_ context.Context, ref string) ([]byte, error) {
	return os.ReadFile(ref)
}
