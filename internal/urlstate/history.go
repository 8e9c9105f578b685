package urlstate

// maxHistory bounds the number of entries kept; the oldest go first.
const maxHistory = 100

// History is a back/forward stack of entries with a cursor. It is owned by
// a single event loop and is not safe for concurrent use.
type History struct {
	entries []Entry
	pos     int
}

// NewHistory starts a history at initial.
func NewHistory(initial Entry) *History {
	return &History{entries: []Entry{initial.Canonical()}}
}

// Current returns the entry under the cursor.
func (h *History) Current() Entry {
	return h.entries[h.pos]
}

// Len reports how many entries are kept.
func (h *History) Len() int {
	return len(h.entries)
}

// Push adds e after the cursor, discarding any forward entries.
func (h *History) Push(e Entry) {
	h.entries = append(h.entries[:h.pos+1], e.Canonical())
	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}
	h.pos = len(h.entries) - 1
}

// Replace overwrites the entry under the cursor.
func (h *History) Replace(e Entry) {
	h.entries[h.pos] = e.Canonical()
}

func (h *History) CanBack() bool    { return h.pos > 0 }
func (h *History) CanForward() bool { return h.pos < len(h.entries)-1 }

// Back moves the cursor one entry back. It reports false at the start.
func (h *History) Back() bool {
	if !h.CanBack() {
		return false
	}
	h.pos--
	return true
}

// Forward moves the cursor one entry forward. It reports false at the end.
func (h *History) Forward() bool {
	if !h.CanForward() {
		return false
	}
	h.pos++
	return true
}
