package models

import (
	"encoding/json"
	"fmt"
)

// KeyAttribute is the name of the insertion token assigned by the local
// storage backend to every stored document. Sync entries are ordered and
// deduplicated by it; it is never exposed to callers.
const KeyAttribute = "_key"

// SyncMethod is the last-known intended operation for a queued entity. The
// values mirror the HTTP verbs the push algorithm will eventually issue.
type SyncMethod string

const (
	SyncMethodCreate SyncMethod = "POST"
	SyncMethodUpdate SyncMethod = "PUT"
	SyncMethodDelete SyncMethod = "DELETE"
)

// Valid reports whether m is one of the recognized sync methods.
func (m SyncMethod) Valid() bool {
	switch m {
	case SyncMethodCreate, SyncMethodUpdate, SyncMethodDelete:
		return true
	}
	return false
}

// SyncState holds the pending operation recorded for an entity.
type SyncState struct {
	Method SyncMethod `json:"operation"`
}

// SyncEntry is one row of the operation log: a pending local mutation of a
// single entity awaiting remote application.
type SyncEntry struct {
	// Key is the monotonically increasing insertion token assigned by the
	// log store. Used only for ordering and deduplication.
	Key int64 `json:"_key,omitempty"`

	// ID is the log row's own identifier, assigned by the log store.
	ID string `json:"_id,omitempty"`

	// Collection names the logical collection the entity belongs to.
	Collection string `json:"collection"`

	// Entity is the full current payload of the affected record.
	Entity Entity `json:"entity"`

	State SyncState `json:"state"`
}

// EntityID returns the id of the entity the entry refers to.
func (e SyncEntry) EntityID(idAttribute string) string {
	return e.Entity.ID(idAttribute)
}

// ToEntity converts the entry to the generic document form stored in the log
// collection.
func (e SyncEntry) ToEntity() (Entity, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode sync entry: %w", err)
	}
	var ent Entity
	if err = json.Unmarshal(payload, &ent); err != nil {
		return nil, fmt.Errorf("decode sync entry document: %w", err)
	}
	return ent, nil
}

// SyncEntryFromEntity parses a log document back into a SyncEntry.
func SyncEntryFromEntity(ent Entity) (SyncEntry, error) {
	payload, err := json.Marshal(ent)
	if err != nil {
		return SyncEntry{}, fmt.Errorf("encode sync entry document: %w", err)
	}
	var entry SyncEntry
	if err = json.Unmarshal(payload, &entry); err != nil {
		return SyncEntry{}, fmt.Errorf("decode sync entry: %w", err)
	}
	return entry, nil
}

// SyncResult is the transient per-entity outcome of a push. It is never
// persisted.
type SyncResult struct {
	// ID is the entity id the entry was queued under. For a successful
	// create this is the original locally generated id, while Entity holds
	// the server copy with the server-assigned id.
	ID     string
	Entity Entity
	Err    error
}
