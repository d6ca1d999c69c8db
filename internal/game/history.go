package game

import "time"

// LogEntry is one resolved action.
type LogEntry struct {
	Side        Side
	Description string
	Timestamp   time.Time
}

// History is the capped, append-only record of resolved actions. Oldest
// entries are dropped first.
type History struct {
	entries []LogEntry
	limit   int
	total   int
}

func newHistory(limit int) *History {
	return &History{limit: limit}
}

func (h *History) append(entry LogEntry) LogEntry {
	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]LogEntry(nil), h.entries[over:]...)
	}
	h.total++
	return entry
}

// Entries returns a copy of the retained entries, oldest first.
func (h *History) Entries() []LogEntry {
	out := make([]LogEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len is the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Total counts every entry ever appended, including dropped ones.
func (h *History) Total() int {
	return h.total
}

// Last returns the newest entry.
func (h *History) Last() (LogEntry, bool) {
	if len(h.entries) == 0 {
		return LogEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}
