package logger

import (
	"sync"
	"time"
)

// CollectedEntry is one aggregated warn/error line kept for the status view.
type CollectedEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// ErrorCollector keeps a bounded ring of recent warn/error entries so the
// dashboard can show why a widget is in its "failed to load" state.
// Identical (level, message, caller) lines collapse into one entry.
type ErrorCollector struct {
	mu      sync.RWMutex
	size    int
	order   []string
	entries map[string]*CollectedEntry
}

func NewErrorCollector(size int) *ErrorCollector {
	if size <= 0 {
		size = 50
	}
	return &ErrorCollector{
		size:    size,
		entries: make(map[string]*CollectedEntry),
	}
}

func (c *ErrorCollector) Add(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := level + "|" + message + "|" + caller

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
		e.Fields = fields
		return
	}

	if len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &CollectedEntry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	c.order = append(c.order, key)
}

// Recent returns collected entries, oldest first.
func (c *ErrorCollector) Recent() []CollectedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CollectedEntry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.entries[key])
	}
	return out
}

// Reset clears the ring.
func (c *ErrorCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.entries = make(map[string]*CollectedEntry)
}
