package tags

import "sync"

// Board holds the tags of one refresh generation, keyed by id.
// The view reads snapshots of it; only the controller writes.
type Board struct {
	mu    sync.Mutex
	gen   uint64
	order []string
	tags  map[string]*Tag
}

// NewBoard returns an empty board at generation zero.
func NewBoard() *Board {
	return &Board{tags: map[string]*Tag{}}
}

// Reset discards every tag and rebuilds the set from rows.
// All tags start unassociated and unlocked. Returns the new generation.
func (b *Board) Reset(rows []Row) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.gen++
	b.order = make([]string, 0, len(rows))
	b.tags = make(map[string]*Tag, len(rows))
	for _, row := range rows {
		id := NormalizeID(row.ID)
		if id == "" {
			continue
		}
		if _, dup := b.tags[id]; dup {
			continue
		}
		b.order = append(b.order, id)
		b.tags[id] = &Tag{ID: id, Columns: row.Values()}
	}
	return b.gen
}

// Generation returns the current refresh generation.
func (b *Board) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen
}

// Len returns the number of tags.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Get returns a copy of the tag with the given id.
func (b *Board) Get(id string) (Tag, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tags[NormalizeID(id)]
	if !ok {
		return Tag{}, false
	}
	return *t, true
}

// Tags returns copies of all tags in feed order.
func (b *Board) Tags() []Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Tag, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.tags[id])
	}
	return out
}

// TryLock is the only admission gate for a mutation. It returns false and
// leaves the tag untouched when it is already locked or unknown.
func (b *Board) TryLock(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tags[NormalizeID(id)]
	if !ok || t.Locked {
		return false
	}
	t.Locked = true
	return true
}

// ApplyOutcome unlocks the tag and records the new association.
func (b *Board) ApplyOutcome(id string, associated bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.tags[NormalizeID(id)]; ok {
		t.Locked = false
		t.Associated = associated
	}
}

// ApplyOutcomeUnchanged unlocks the tag and keeps its association.
func (b *Board) ApplyOutcomeUnchanged(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.tags[NormalizeID(id)]; ok {
		t.Locked = false
	}
}

// settle applies a request outcome if gen is still the live generation.
// Returns false when the tag belongs to a discarded generation.
func (b *Board) settle(gen uint64, id string, ok bool, associated bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return false
	}
	t, found := b.tags[id]
	if !found {
		return false
	}
	t.Locked = false
	if ok {
		t.Associated = associated
	}
	return true
}

// markLinked sets associated on every tag whose id is in linked, if gen is
// still live. Locks are left alone. Returns the number of tags marked.
func (b *Board) markLinked(gen uint64, linked map[string]struct{}) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return 0, false
	}
	n := 0
	for id, t := range b.tags {
		if _, ok := linked[id]; ok {
			t.Associated = true
			n++
		}
	}
	return n, true
}

// admit locks the tag like TryLock and also returns the tag as it was before
// the lock, along with the generation the lock was taken under.
func (b *Board) admit(id string) (Tag, uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tags[NormalizeID(id)]
	if !ok || t.Locked {
		return Tag{}, 0, false
	}
	pre := *t
	t.Locked = true
	return pre, b.gen, true
}
