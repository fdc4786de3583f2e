// Package history provides storage for the tool-invocation history kept by
// the mcp-browser-use service.
package history

import (
	"time"
)

// Entry is a single recorded tool invocation.
type Entry struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`

	// Tool is the name of the invoked MCP tool.
	Tool string `json:"tool"`

	// Args is a compact digest of the tool arguments. Sensitive values are
	// redacted before recording.
	Args string `json:"args"`

	// Status is the outcome reported to the client ("success" or "error").
	Status string `json:"status"`

	// Result is a short snippet of the tool result.
	Result string `json:"result"`

	// Timestamp is when the invocation completed.
	Timestamp time.Time `json:"timestamp"`
}

// Store defines the interface for recording and querying tool activity.
type Store interface {
	// Initialize initializes the store with configuration options.
	Initialize(dbPath string) error

	// Close closes the store and releases any resources.
	Close() error

	// Record stores a tool invocation entry.
	Record(entry Entry) error

	// Recent returns the most recent entries, newest first.
	Recent(limit int) ([]Entry, error)

	// Clear removes all entries and returns the number deleted.
	Clear() (int, error)
}
