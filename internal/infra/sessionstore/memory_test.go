package sessionstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephheron/devlens/internal/domain/analysis"
	"github.com/josephheron/devlens/internal/domain/session"
)

func TestSnapshotMissing(t *testing.T) {
	store := NewMemory()

	snap, ok := store.Snapshot("nobody")
	assert.False(t, ok)
	assert.Equal(t, "nobody", snap.ID)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Transcript)
	assert.Zero(t, store.Len(), "snapshot must not create sessions")
}

func TestUpdateCreatesAndSnapshotsCopy(t *testing.T) {
	store := NewMemory()

	store.Update("s1", func(s *session.Session) {
		s.Result = &analysis.Result{ScreenshotsAnalysed: 2}
		s.Transcript = s.Transcript.Append("q", "a")
	})

	snap, ok := store.Snapshot("s1")
	require.True(t, ok)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 2, snap.Result.ScreenshotsAnalysed)
	assert.Equal(t, 1, snap.Transcript.Exchanges())

	// Mutating the copy's transcript must not leak back into the store.
	snap.Transcript = snap.Transcript.Append("x", "y")
	again, _ := store.Snapshot("s1")
	assert.Equal(t, 1, again.Transcript.Exchanges())
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewMemory()

	store.Update("a", func(s *session.Session) { s.Result = &analysis.Result{ScreenshotsAnalysed: 1} })
	store.Update("b", func(s *session.Session) { s.Transcript = s.Transcript.Append("q", "a") })

	a, _ := store.Snapshot("a")
	b, _ := store.Snapshot("b")
	assert.NotNil(t, a.Result)
	assert.Zero(t, a.Transcript.Exchanges())
	assert.Nil(t, b.Result)
	assert.Equal(t, 1, b.Transcript.Exchanges())
}

func TestConcurrentUpdates(t *testing.T) {
	store := NewMemory()
	const workers = 32

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", n%4)
			store.Update(id, func(s *session.Session) {
				s.Transcript = s.Transcript.Append("q", "a")
			})
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 4; i++ {
		snap, ok := store.Snapshot(fmt.Sprintf("s%d", i))
		require.True(t, ok)
		total += snap.Transcript.Exchanges()
	}
	assert.Equal(t, workers, total)
}
