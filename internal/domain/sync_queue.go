package domain

import "encoding/json"

// SyncQueueItem is one pending outbound mutation in the outbox.
//
// Fields:
//   - ID: autoincrement key; never reused, so a removed id cannot reappear.
//   - Operation: create, update or delete.
//   - Table: the remote table the mutation targets.
//   - Payload: JSON object snapshot of the row (or {id, user_id} for deletes).
//   - EnqueuedAt: unix milliseconds, strictly increasing in insertion order.
//   - Attempts: failed push attempts so far.
//   - LastError: message of the most recent failed attempt.
type SyncQueueItem struct {
	ID         int64      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Operation  Operation  `json:"operation" gorm:"type:text;not null"`
	Table      EntityKind `json:"table"     gorm:"column:table_name;type:text;not null"`
	Payload    string     `json:"payload"   gorm:"type:text;not null"`
	EnqueuedAt int64      `json:"timestamp" gorm:"not null"`
	Attempts   int        `json:"attempts"  gorm:"not null;default:0"`
	LastError  *string    `json:"error"     gorm:"column:last_error"`
}

// TableName returns the database table name for SyncQueueItem.
func (SyncQueueItem) TableName() string { return "sync_queue" }

// RawPayload returns the payload as raw JSON.
func (i SyncQueueItem) RawPayload() json.RawMessage { return json.RawMessage(i.Payload) }

// PayloadField extracts a top-level string field of the payload, or "" when
// the field is missing or not a string.
func (i SyncQueueItem) PayloadField(name string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(i.Payload), &fields); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(fields[name], &s); err != nil {
		return ""
	}
	return s
}
