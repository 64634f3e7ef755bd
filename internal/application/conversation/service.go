package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/josephheron/devlens/internal/application"
	domai "github.com/josephheron/devlens/internal/domain/ai"
	"github.com/josephheron/devlens/internal/domain/credential"
	"github.com/josephheron/devlens/internal/domain/faults"
	"github.com/josephheron/devlens/internal/domain/session"
	"github.com/josephheron/devlens/internal/infra/ai/prompt"
)

const (
	defaultTemperature = 0.7
	defaultWindow      = 10
)

// User-facing copy. Failure answers wear the assistant role prefix so
// they read as part of the conversation rather than a system crash.
const (
	MsgEmptyQuestion = "Please ask a question."
	MsgInvalidKey    = "Please enter a valid OpenAI API key above."
	msgCredential    = "**Assistant:** I'm having trouble connecting to the AI service. Please check your API key."
	msgRateLimit     = "**Assistant:** I'm receiving too many requests. Please wait a moment and try again."
)

// Service implements the follow-up use-case: ground the question in the
// stored analysis and the running transcript, ask the model, append the
// exchange.
type Service struct {
	Client   domai.Client
	Sessions session.Store
	Faults   faults.Repository // optional
	Clock    application.Clock
	Logger   *slog.Logger

	// Temperature for the conversational call; higher than the analysis
	// path on purpose. Zero means the 0.7 default.
	Temperature float32

	// Window caps how many of the most recent exchanges are replayed as
	// context per follow-up. The stored transcript still grows without
	// bound; only the per-call context is cut. Zero means the default
	// of 10; negative disables the cap.
	Window int
}

// Ask answers one follow-up question. It returns the transcript (grown
// by one exchange on success, byte-identical to its prior value on any
// failure) and a status message (empty on success). It never returns an
// error: every path yields something displayable.
func (s *Service) Ask(ctx context.Context, sessionID, question, apiKey string) (session.Transcript, string) {
	snap, _ := s.Sessions.Snapshot(sessionID)
	transcript := snap.Transcript

	if strings.TrimSpace(question) == "" {
		return transcript, MsgEmptyQuestion
	}
	if !credential.Valid(apiKey) {
		return transcript, MsgInvalidKey
	}

	contextText := prompt.NoPriorAnalysis
	if snap.Result != nil {
		if pretty, err := json.MarshalIndent(snap.Result, "", "  "); err == nil {
			contextText = prompt.AnalysisContext(string(pretty), snap.Result.ScreenshotsAnalysed)
		}
	}

	answer, err := s.Client.Complete(ctx, apiKey, domai.Request{
		System:      prompt.FollowUpSystem(contextText, string(transcript.Window(s.window()))),
		Text:        question,
		Temperature: s.temperature(),
	})
	if err != nil {
		s.recordFault(ctx, sessionID, err)
		return transcript, s.failureMessage(err)
	}

	updated := transcript.Append(question, answer)
	s.Sessions.Update(sessionID, func(sess *session.Session) {
		sess.Transcript = updated
	})
	return updated, ""
}

func (s *Service) temperature() float32 {
	if s.Temperature == 0 {
		return defaultTemperature
	}
	return s.Temperature
}

func (s *Service) window() int {
	if s.Window == 0 {
		return defaultWindow
	}
	return s.Window
}

func (s *Service) failureMessage(err error) string {
	switch domai.Classify(err) {
	case domai.KindCredential:
		return msgCredential
	case domai.KindRateLimit:
		return msgRateLimit
	default:
		return fmt.Sprintf("**Assistant:** Sorry, I encountered an error: %v. Please try again.", err)
	}
}

func (s *Service) recordFault(ctx context.Context, sessionID string, cause error) {
	if s.Faults == nil {
		return
	}
	f := &faults.Fault{
		SessionID: sessionID,
		Stage:     "followup",
		Kind:      domai.Classify(cause).String(),
		Message:   cause.Error(),
		CreatedAt: s.now(),
	}
	if err := s.Faults.Save(ctx, f); err != nil && s.Logger != nil {
		s.Logger.Warn("save followup fault", "session", sessionID, "err", err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}
