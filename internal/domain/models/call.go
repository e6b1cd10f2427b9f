package models

import (
	"encoding/json"
	"time"
)

// Call outcomes stored in the journal.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// CallRecord is one journaled operation invocation.
//
// Fields:
//   - ID: Unique identifier (UUID v4).
//   - Operation: Operation (tool) name, e.g. "get_quote".
//   - Arguments: Raw JSON arguments as received.
//   - Outcome: "ok" or "error".
//   - ErrorKind / ErrorMessage: Populated when Outcome is "error".
//   - DurationMs: Wall time of the invocation.
//   - RequestID: HTTP request id when the call arrived over REST.
//
// swagger:model CallRecord
type CallRecord struct {
	ID           string          `json:"id"`
	Operation    string          `json:"operation" example:"get_quote"`
	Arguments    json.RawMessage `json:"arguments" swaggertype:"object"`
	Outcome      string          `json:"outcome" example:"ok"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	DurationMs   int64           `json:"duration_ms" example:"120"`
	RequestID    string          `json:"request_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
