package session

import (
	"fmt"
	"strings"

	"github.com/josephheron/devlens/internal/domain/analysis"
)

// TranscriptPlaceholder is the sentinel a fresh conversation view shows
// before the first exchange. Appending replaces it instead of
// concatenating onto it.
const TranscriptPlaceholder = "Your conversation will appear here after you start asking questions..."

const exchangeMarker = "**You:** "

// Transcript is the append-only conversation text. It grows
// monotonically within a session and is reset only by process restart.
type Transcript string

// NewExchange renders one question/answer block.
func NewExchange(question, answer string) string {
	return fmt.Sprintf("**You:** %s\n\n**Assistant:** %s", question, answer)
}

// Append returns the transcript with one more exchange. The first
// exchange replaces the placeholder sentinel (and an empty transcript)
// outright; later exchanges join with a blank line.
func (t Transcript) Append(question, answer string) Transcript {
	block := Transcript(NewExchange(question, answer))
	switch {
	case string(t) == TranscriptPlaceholder:
		return block
	case strings.TrimSpace(string(t)) != "":
		return t + "\n\n" + block
	default:
		return block
	}
}

// Exchanges counts the question/answer blocks in the transcript.
func (t Transcript) Exchanges() int {
	if t == "" || string(t) == TranscriptPlaceholder {
		return 0
	}
	return strings.Count(string(t), exchangeMarker)
}

// Window trims the transcript to its most recent max exchanges for use
// as model context. max <= 0 disables trimming. The stored transcript
// is never trimmed; only the context sent per follow-up is. Assumes
// answers do not embed the exchange marker.
func (t Transcript) Window(max int) Transcript {
	if max <= 0 || t == "" || string(t) == TranscriptPlaceholder {
		return t
	}
	parts := strings.Split(string(t), "\n\n"+exchangeMarker)
	if len(parts) <= max {
		return t
	}
	kept := parts[len(parts)-max:]
	var b strings.Builder
	for i, p := range kept {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(exchangeMarker)
		b.WriteString(p)
	}
	return Transcript(b.String())
}

// Session holds the per-user state shared between analysis and
// follow-up: the last successful analysis result and the running
// transcript. A failed analysis never replaces Result.
type Session struct {
	ID         string
	Result     *analysis.Result
	Transcript Transcript
}
