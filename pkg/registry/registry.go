package registry

import (
	"slices"
	"sync"
)

// Entry is one displayed message body.
type Entry struct {
	ID   int
	Body string
}

// GroupSummary is a consistent snapshot of the registry.
type GroupSummary struct {
	// Entries lists every non-empty body; ids in first-arrival order and
	// bodies in arrival order within an id.
	Entries []Entry
	// LastBodies maps each id with entries to its most recent body.
	LastBodies map[int]string
	// LinkedIDs in insertion order.
	LinkedIDs []string
}

// Count is the number of aggregated entries.
func (s GroupSummary) Count() int {
	return len(s.Entries)
}

// Bodies returns the entry bodies in order.
func (s GroupSummary) Bodies() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Body
	}
	return out
}

// Registry maps notification ids to message bodies and tracks linked item ids.
type Registry struct {
	mu       sync.Mutex
	messages map[int][]string
	order    []int
	linked   []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{messages: make(map[int][]string)}
}

// AppendMessage appends text to the sequence of id. An empty text clears the
// sequence instead.
func (r *Registry) AppendMessage(id int, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(id, text)
}

// ClearMessages tombstones the sequence of id.
func (r *Registry) ClearMessages(id int) {
	r.AppendMessage(id, "")
}

func (r *Registry) appendLocked(id int, text string) {
	list, seen := r.messages[id]
	if !seen {
		r.order = append(r.order, id)
	}
	if text == "" {
		r.messages[id] = list[:0:0]
		return
	}
	r.messages[id] = append(list, text)
}

// Messages returns a copy of the sequence of id.
func (r *Registry) Messages(id int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages[id])
}

// ClearAll drops every message sequence. Linked ids are kept.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.messages)
	r.order = r.order[:0]
}

// AddLinkedID adds id to the linked set. It reports false when id is empty
// or already present.
func (r *Registry) AddLinkedID(id string) bool {
	if id == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.linked, id) {
		return false
	}
	r.linked = append(r.linked, id)
	return true
}

// RemoveLinkedID removes id from the linked set and reports whether it was present.
func (r *Registry) RemoveLinkedID(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLinkedLocked(id)
}

func (r *Registry) removeLinkedLocked(id string) bool {
	i := slices.Index(r.linked, id)
	if i < 0 {
		return false
	}
	r.linked = slices.Delete(r.linked, i, i+1)
	return true
}

// LinkedIDCount returns the size of the linked set.
func (r *Registry) LinkedIDCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.linked)
}

// LinkedIDs returns the linked set in insertion order.
func (r *Registry) LinkedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.linked)
}

// ClearLinkedIDs empties the linked set.
func (r *Registry) ClearLinkedIDs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linked = nil
}

// Reset clears messages and linked ids together.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.messages)
	r.order = r.order[:0]
	r.linked = nil
}

// Consume tombstones id, removes linkedID from the linked set and returns
// the number of linked ids left. An id that was never recorded is left
// untouched.
func (r *Registry) Consume(id int, linkedID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.messages[id]; seen {
		r.appendLocked(id, "")
	}
	if linkedID != "" {
		r.removeLinkedLocked(linkedID)
	}
	return len(r.linked)
}

// Track appends text under id, adds linkedID and returns the resulting
// summary, all under one lock.
func (r *Registry) Track(id int, text, linkedID string) GroupSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(id, text)
	if linkedID != "" && !slices.Contains(r.linked, linkedID) {
		r.linked = append(r.linked, linkedID)
	}
	return r.summaryLocked()
}

// Summary returns a snapshot for building a group summary.
func (r *Registry) Summary() GroupSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked()
}

func (r *Registry) summaryLocked() GroupSummary {
	s := GroupSummary{
		LastBodies: make(map[int]string),
		LinkedIDs:  slices.Clone(r.linked),
	}
	for _, id := range r.order {
		for _, body := range r.messages[id] {
			if body == "" {
				continue
			}
			s.Entries = append(s.Entries, Entry{ID: id, Body: body})
			s.LastBodies[id] = body
		}
	}
	return s
}
