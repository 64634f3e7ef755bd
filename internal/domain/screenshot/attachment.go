package screenshot

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Attachment references a screenshot by a handle the Source understands
// (a file path or an object-storage key). It lives only for the duration
// of one analysis request.
type Attachment struct {
	Name string // origin label, usually the uploaded filename
	Ref  string // handle resolved by the Source
}

// Source returns the raw bytes behind an attachment reference.
type Source interface {
	Read(ctx context.Context, ref string) ([]byte, error)
}

// InlineImage is the transport-safe form of one screenshot.
type InlineImage struct {
	Name    string
	Data    []byte // raw bytes, kept for archiving
	DataURI string // data:image/jpeg;base64,... sent to the model
}

const mimeType = "image/jpeg"

// Encode reads the attachment's full content and wraps it in a data URI.
func Encode(ctx context.Context, src Source, att Attachment) (InlineImage, error) {
	data, err := src.Read(ctx, att.Ref)
	if err != nil {
		return InlineImage{}, fmt.Errorf("read screenshot %q: %w", att.Name, err)
	}
	return InlineImage{
		Name:    att.Name,
		Data:    data,
		DataURI: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// EncodeAll encodes attachments in order. Image N of the input maps to
// image N of the output, matching the 1-based screenshot ordinals the
// model is asked to use. A read failure aborts the whole batch; a
// silently skipped image would shift every ordinal after it.
func EncodeAll(ctx context.Context, src Source, atts []Attachment) ([]InlineImage, error) {
	out := make([]InlineImage, 0, len(atts))
	for _, att := range atts {
		img, err := Encode(ctx, src, att)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
