package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/josephheron/devlens/internal/application"
	domai "github.com/josephheron/devlens/internal/domain/ai"
	domain "github.com/josephheron/devlens/internal/domain/analysis"
	"github.com/josephheron/devlens/internal/domain/credential"
	"github.com/josephheron/devlens/internal/domain/faults"
	"github.com/josephheron/devlens/internal/domain/history"
	"github.com/josephheron/devlens/internal/domain/screenshot"
	"github.com/josephheron/devlens/internal/domain/session"
	"github.com/josephheron/devlens/internal/infra/ai/prompt"
)

const defaultTemperature = 0.3

// User-facing copy. Every failure path through Analyse resolves to one
// of these (or the raw-output fallback); nothing escapes as a fault the
// user cannot read.
const (
	MsgNoScreenshots = "Please upload at least one screenshot to analyse."
	MsgInvalidKey    = "**Invalid API Key**: Please enter a valid OpenAI API key starting with 'sk-'"
	msgCredential    = "**Connection Error**: Please check your OpenAI API key is valid and has sufficient credits."
	msgRateLimit     = "**Rate Limit Error**: Too many requests. Please wait a moment and try again."
	rawFallbackHead  = "Error parsing response. Raw output:\n"
)

// Archiver stores submitted screenshots for later retrieval.
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Command is one analysis submission.
type Command struct {
	SessionID   string
	Prompt      string
	Attachments []screenshot.Attachment
	APIKey      string
	// Source overrides the service default when the attachments come
	// from somewhere else (e.g. object storage keys instead of files).
	Source screenshot.Source
}

// Service implements the analyse use-case: validate, encode, ask the
// model for schema JSON, parse, render, store.
type Service struct {
	Client   domai.Client
	Source   screenshot.Source
	Sessions session.Store
	History  history.Repository // optional
	Faults   faults.Repository  // optional
	Archive  Archiver           // optional
	Clock    application.Clock
	Logger   *slog.Logger

	// Temperature for the analysis call; kept low so a diagnostic answer
	// stays factual rather than creative. Zero means the 0.3 default.
	Temperature float32
}

// Analyse runs one submission end to end and returns the text to show
// the user plus the structured result when one was obtained. The result
// is nil on every failure path; callers must only store non-nil results
// so a failed run never clobbers a previous good one (this service
// already follows that rule for its own session store). The error
// return is reserved for screenshot read failures, which must propagate
// rather than masquerade as a model answer.
func (s *Service) Analyse(ctx context.Context, cmd Command) (string, *domain.Result, error) {
	if len(cmd.Attachments) == 0 {
		return MsgNoScreenshots, nil, nil
	}
	if !credential.Valid(cmd.APIKey) {
		return MsgInvalidKey, nil, nil
	}

	src := cmd.Source
	if src == nil {
		src = s.Source
	}
	images, err := screenshot.EncodeAll(ctx, src, cmd.Attachments)
	if err != nil {
		return "", nil, err
	}

	uris := make([]string, len(images))
	for i, img := range images {
		uris[i] = img.DataURI
	}

	raw, err := s.Client.Complete(ctx, cmd.APIKey, domai.Request{
		System:      prompt.AnalysisSystem(len(cmd.Attachments)),
		Text:        cmd.Prompt,
		Images:      uris,
		Temperature: s.temperature(),
		JSONOnly:    true,
	})
	if err != nil {
		s.recordFault(ctx, cmd.SessionID, err)
		return s.failureMessage(err), nil, nil
	}

	res, perr := domain.Parse(raw)
	if perr != nil {
		// The raw text is the only diagnostic the user has; never hide it.
		return rawFallbackHead + raw, nil, nil
	}

	s.Sessions.Update(cmd.SessionID, func(sess *session.Session) {
		sess.Result = res
	})
	s.saveHistory(ctx, cmd, raw)
	s.archive(ctx, cmd, images)

	return domain.Render(res), res, nil
}

func (s *Service) temperature() float32 {
	if s.Temperature == 0 {
		return defaultTemperature
	}
	return s.Temperature
}

func (s *Service) failureMessage(err error) string {
	switch domai.Classify(err) {
	case domai.KindCredential:
		return msgCredential
	case domai.KindRateLimit:
		return msgRateLimit
	default:
		return fmt.Sprintf("Analysis failed: %v. Please try again with another screenshot", err)
	}
}

func (s *Service) recordFault(ctx context.Context, sessionID string, cause error) {
	if s.Faults == nil {
		return
	}
	f := &faults.Fault{
		SessionID: sessionID,
		Stage:     "analyse",
		Kind:      domai.Classify(cause).String(),
		Message:   cause.Error(),
		CreatedAt: s.now(),
	}
	if err := s.Faults.Save(ctx, f); err != nil && s.Logger != nil {
		s.Logger.Warn("save analysis fault", "session", sessionID, "err", err)
	}
}

func (s *Service) saveHistory(ctx context.Context, cmd Command, raw string) {
	if s.History == nil {
		return
	}
	rec := &history.Record{
		ID:          history.RecordID(uuid.New().String()),
		SessionID:   cmd.SessionID,
		Prompt:      cmd.Prompt,
		Screenshots: len(cmd.Attachments),
		ResultJSON:  raw,
		CreatedAt:   s.now(),
	}
	if err := s.History.Save(ctx, rec); err != nil && s.Logger != nil {
		s.Logger.Warn("save analysis history", "session", cmd.SessionID, "err", err)
	}
}

func (s *Service) archive(ctx context.Context, cmd Command, images []screenshot.InlineImage) {
	if s.Archive == nil {
		return
	}
	batch := uuid.New().String()
	for i, img := range images {
		key := fmt.Sprintf("sessions/%s/%s/%d_%s", cmd.SessionID, batch, i+1, img.Name)
		if _, err := s.Archive.Upload(ctx, key, img.Data, "image/jpeg"); err != nil && s.Logger != nil {
			s.Logger.Warn("archive screenshot", "session", cmd.SessionID, "key", key, "err", err)
		}
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}
