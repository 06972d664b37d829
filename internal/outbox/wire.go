package outbox

import (
	"encoding/json"

	"github.com/tbourn/go-fitness-sync/internal/domain"
)

// WireItem is the JSON form of a queue item sent to the remote backend and
// shown by the local queue endpoints.
type WireItem struct {
	ID        int64           `json:"id,omitempty"`
	Operation string          `json:"operation"`
	Table     string          `json:"table"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
	Attempts  int             `json:"attempts"`
	Error     *string         `json:"error"`
}

// ToWire converts a stored item to its wire form.
func ToWire(it domain.SyncQueueItem) WireItem {
	return WireItem{
		ID:        it.ID,
		Operation: string(it.Operation),
		Table:     string(it.Table),
		Payload:   it.RawPayload(),
		Timestamp: it.EnqueuedAt,
		Attempts:  it.Attempts,
		Error:     it.LastError,
	}
}
