package dto

import "encoding/json"

type DiscoveryResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	APIRoot     string `json:"api_root"`
}

type CollectionResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ObjectCount int64  `json:"object_count"`
}

type CollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
}

// Bundle is the transport envelope for one page of objects. The id is
// generated fresh for every response. Total/Limit/Offset describe the page
// window against the collection snapshot.
type Bundle struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Objects []json.RawMessage `json:"objects"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
