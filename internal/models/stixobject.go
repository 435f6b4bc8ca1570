package models

import (
	"encoding/json"
	"time"
)

// StixObject is one stored row. The same STIX object id may appear in more
// than one collection; (collection_id, object_id, spec_version) is unique.
// Raw is carried verbatim and never interpreted beyond identity extraction.
type StixObject struct {
	ID           int64           `json:"id"`
	CollectionID string          `json:"collection_id"`
	ObjectID     string          `json:"object_id"`
	SpecVersion  string          `json:"spec_version"`
	Type         string          `json:"type"`
	Raw          json.RawMessage `json:"raw"`
	CreatedAt    time.Time       `json:"created_at"`
}
