package dto

import "encoding/json"

// IngestBundle is the writer-side input shape: a bundle-like document holding
// zero or more raw STIX objects destined for one collection.
type IngestBundle struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Objects []json.RawMessage `json:"objects"`
}

// ObjectError reports a single object that could not be ingested. Siblings
// that already inserted are not rolled back.
type ObjectError struct {
	Index    int    `json:"index"`
	ObjectID string `json:"object_id,omitempty"`
	Message  string `json:"message"`
}
