package analysis

import (
	"context"

	domain "github.com/josephheron/devlens/internal/domain/analysis"
)

// Stage labels the two messages AnalyseAsync emits.
type Stage string

const (
	StageWorking Stage = "working"
	StageDone    Stage = "done"
)

// MsgWorking is the interim acknowledgment shown while the model call
// is in flight.
const MsgWorking = "**Analysing...**\n\nPlease wait while I identify the issue."

// Update is one message of the two-phase response.
type Update struct {
	Stage    Stage
	Rendered string
	Result   *domain.Result
	Err      error
}

// AnalyseAsync runs Analyse in the background and yields exactly two
// updates: an immediate working acknowledgment, then the final outcome.
// The channel is buffered for both messages and closed after the
// second, so an abandoning caller leaks nothing. Cancelling ctx aborts
// the in-flight model call; the final update then carries its error.
func (s *Service) AnalyseAsync(ctx context.Context, cmd Command) <-chan Update {
	updates := make(chan Update, 2)
	updates <- Update{Stage: StageWorking, Rendered: MsgWorking}
	go func() {
		defer close(updates)
		rendered, res, err := s.Analyse(ctx, cmd)
		updates <- Update{Stage: StageDone, Rendered: rendered, Result: res, Err: err}
	}()
	return updates
}
