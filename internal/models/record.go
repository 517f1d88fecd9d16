package models

// Record is a logical row supplied by the caller. Values are primitives,
// time.Time for date columns, or truthy flags keyed by an option label.
type Record map[string]any

// Clone returns a shallow copy, deep enough for key removal
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Payload is a row in the wire format the remote service expects
type Payload map[string]any

// TableHandle identifies a remote table
type TableHandle struct {
	ID int
}

// RemoteRow is a row returned by the service
type RemoteRow struct {
	ID     int64
	Fields map[string]any
}

// FilterMode joins filters in a row query
type FilterMode string

const (
	FilterAnd FilterMode = "AND"
	FilterOr  FilterMode = "OR"
)

// Filter is an equality condition on one column
type Filter struct {
	Field string
	Value any
}

// UpsertAction tells whether an upsert inserted or updated
type UpsertAction string

const (
	ActionCreated UpsertAction = "created"
	ActionUpdated UpsertAction = "updated"
)

// UpsertResult is the outcome of a successful upsert
type UpsertResult struct {
	RowID  int64
	Action UpsertAction
}
