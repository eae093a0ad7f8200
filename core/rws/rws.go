package rws

// readEntry caches a firsthand world-state read so it is never re-fetched
// within the same transition.
type readEntry struct {
	value   []byte
	present bool
}

// ReadWriteSet is the cache layered over a WorldStateView: all reads and
// writes during a transition route through it, and it alone knows how to
// produce the commit delta.
type ReadWriteSet struct {
	ws       WorldStateView
	writeSet map[string]WriteEntry
	readSet  map[string]readEntry
}

// New wraps a WorldStateView in a fresh, empty cache.
func New(ws WorldStateView) *ReadWriteSet {
	return &ReadWriteSet{
		ws:       ws,
		writeSet: make(map[string]WriteEntry),
		readSet:  make(map[string]readEntry),
	}
}

// Get implements the read policy: write_set → read_set → WS, populating
// read_set on a WS miss-turned-hit. Gas is not charged here;
// callers go through core/gas.Meter for billed access.
func (r *ReadWriteSet) Get(key []byte) ([]byte, bool) {
	k := string(key)
	if w, ok := r.writeSet[k]; ok {
		if !w.Present {
			return nil, false
		}
		return w.Value, true
	}
	if cached, ok := r.readSet[k]; ok {
		return cached.value, cached.present
	}
	value, present := r.ws.Get(key)
	r.readSet[k] = readEntry{value: value, present: present}
	return value, present
}

// Contains reports presence using the same read policy as Get.
func (r *ReadWriteSet) Contains(key []byte) bool {
	_, present := r.Get(key)
	return present
}

// Set records a pending write and returns nothing; the gas meter reads the
// prior value through Get before calling Set, to bill on the old/new value
// lengths.
func (r *ReadWriteSet) Set(key []byte, value []byte) {
	r.writeSet[string(key)] = WriteEntry{Value: value, Present: true}
}

// Delete records a pending delete (write_set entry with Present=false).
func (r *ReadWriteSet) Delete(key []byte) {
	r.writeSet[string(key)] = WriteEntry{Present: false}
}

// CommitInto flushes every pending write (including deletes) into storage
// with a single ApplyWriteSet call. Callers holding a WriteSet (such as the
// HTTP service) may also apply it to storage directly.
func (r *ReadWriteSet) CommitInto(storage WorldStateStorage) error {
	out := make(WriteSet, len(r.writeSet))
	for k, v := range r.writeSet {
		out[k] = v
	}
	return storage.ApplyWriteSet(out)
}

// WriteSet returns the pending write delta without committing it, used by
// the library entry point's TransitionResult.new_write_set.
func (r *ReadWriteSet) WriteSet() WriteSet {
	out := make(WriteSet, len(r.writeSet))
	for k, v := range r.writeSet {
		out[k] = v
	}
	return out
}

// Discard drops every cached read and pending write, used on a PreCharge
// reject.
func (r *ReadWriteSet) Discard() {
	r.writeSet = make(map[string]WriteEntry)
	r.readSet = make(map[string]readEntry)
}
