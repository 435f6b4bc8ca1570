package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sutms/taxii-api/internal/database"
	"github.com/sutms/taxii-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateCollection creates a test collection with default values
func (f *Fixtures) CreateCollection(t *testing.T, opts ...CollectionOption) *models.Collection {
	t.Helper()
	f.counter++

	collection := &models.Collection{
		ID:          fmt.Sprintf("collection-%d", f.counter),
		Title:       fmt.Sprintf("Test Collection %d", f.counter),
		Description: "Collection created by test fixtures",
	}

	for _, opt := range opts {
		opt(collection)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (id, title, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, collection.ID, collection.Title, collection.Description).Scan(&collection.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}

	return collection
}

// CollectionOption configures a test collection
type CollectionOption func(*models.Collection)

func WithCollectionID(id string) CollectionOption {
	return func(c *models.Collection) { c.ID = id }
}

func WithTitle(title string) CollectionOption {
	return func(c *models.Collection) { c.Title = title }
}

// CreateObject inserts a STIX indicator into a collection
func (f *Fixtures) CreateObject(t *testing.T, collectionID string, opts ...ObjectOption) *models.StixObject {
	t.Helper()
	f.counter++

	obj := &models.StixObject{
		CollectionID: collectionID,
		ObjectID:     fmt.Sprintf("indicator--%s", uuid.NewString()),
		SpecVersion:  "2.1",
		Type:         "indicator",
	}

	for _, opt := range opts {
		opt(obj)
	}

	if obj.Raw == nil {
		obj.Raw = IndicatorPayload(obj.ObjectID, f.counter)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO stix_objects (collection_id, object_id, spec_version, object_type, raw)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, obj.CollectionID, obj.ObjectID, obj.SpecVersion, obj.Type, obj.Raw).Scan(&obj.ID, &obj.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create object: %v", err)
	}

	return obj
}

// ObjectOption configures a test STIX object
type ObjectOption func(*models.StixObject)

func WithObjectID(id string) ObjectOption {
	return func(o *models.StixObject) { o.ObjectID = id }
}

func WithType(objectType string) ObjectOption {
	return func(o *models.StixObject) { o.Type = objectType }
}

func WithRaw(raw json.RawMessage) ObjectOption {
	return func(o *models.StixObject) { o.Raw = raw }
}

// IndicatorPayload builds a minimal STIX indicator document
func IndicatorPayload(objectID string, n int) json.RawMessage {
	doc := map[string]any{
		"type":         "indicator",
		"id":           objectID,
		"spec_version": "2.1",
		"name":         fmt.Sprintf("Malicious IP 198.51.100.%d", (n%250)+1),
		"pattern":      fmt.Sprintf("[ipv4-addr:value = '198.51.100.%d']", (n%250)+1),
		"pattern_type": "stix",
	}
	raw, _ := json.Marshal(doc)
	return raw
}
