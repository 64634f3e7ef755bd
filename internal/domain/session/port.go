package session

// Store keys sessions by identity so concurrent sessions stay isolated;
// there is no process-wide "current" session. Writes to one session are
// serialized by the implementation; last write wins, which is fine while
// each session is driven by a single interactive user.
type Store interface {
	// Snapshot returns a copy of the session state, creating nothing.
	Snapshot(id string) (Session, bool)
	// Update runs fn against the session for id, creating it first if
	// needed. fn must be quick; it runs under the store's write lock.
	Update(id string, fn func(*Session))
}
