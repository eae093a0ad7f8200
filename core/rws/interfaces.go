package rws

// WorldStateView is the read-only projection the transition core consumes.
// Implementations must be deterministic: the same key always yields the
// same value within one transition.
type WorldStateView interface {
	Get(key []byte) ([]byte, bool)
	Contains(key []byte) bool
}

// WorldStateStorage is the embedder-owned backing store capable of
// applying a WriteSet atomically.
type WorldStateStorage interface {
	ApplyWriteSet(ws WriteSet) error
}

// WriteEntry is one pending mutation: Present=false encodes a delete.
type WriteEntry struct {
	Value   []byte
	Present bool
}

// WriteSet is the commit delta produced by a ReadWriteSet, keyed by the same canonical byte keys as WorldStateView.
type WriteSet map[string]WriteEntry
