package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sutms/taxii-api/internal/metrics"
	"github.com/sutms/taxii-api/internal/models"
	"github.com/sutms/taxii-api/internal/services"
	"github.com/sutms/taxii-api/pkg/dto"
)

// DefaultSpecVersion is assumed when an object carries no spec_version field.
const DefaultSpecVersion = "2.1"

// CollectionGetter is the registry surface the writer needs.
type CollectionGetter interface {
	Get(ctx context.Context, collectionID string) (*models.Collection, error)
}

// ObjectWriter is the repository surface the writer needs.
type ObjectWriter interface {
	Put(ctx context.Context, collectionID string, obj *models.StixObject, upsert bool) (*models.StixObject, error)
}

// Result reports one batch: how many objects landed and which did not.
type Result struct {
	Ingested int
	Errors   []dto.ObjectError
}

type Ingestor struct {
	collections CollectionGetter
	objects     ObjectWriter
}

func NewIngestor(collections CollectionGetter, objects ObjectWriter) *Ingestor {
	return &Ingestor{collections: collections, objects: objects}
}

// identity is the only part of a payload the store reads.
type identity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	SpecVersion string `json:"spec_version"`
}

// LoadBundle upserts every object of a bundle into the target collection.
// A missing collection fails the whole batch before anything is written.
// Individual malformed objects are reported in the result's error list and
// do not roll back siblings that already inserted.
func (ing *Ingestor) LoadBundle(ctx context.Context, collectionID string, bundle dto.IngestBundle) (*Result, error) {
	if _, err := ing.collections.Get(ctx, collectionID); err != nil {
		if errors.Is(err, services.ErrCollectionNotFound) {
			return nil, services.ErrUnknownCollection
		}
		return nil, err
	}

	result := &Result{}
	for i, raw := range bundle.Objects {
		var ident identity
		if err := json.Unmarshal(raw, &ident); err != nil {
			result.Errors = append(result.Errors, dto.ObjectError{
				Index:   i,
				Message: fmt.Sprintf("invalid object document: %v", err),
			})
			metrics.ObjectsIngested.WithLabelValues("rejected").Inc()
			continue
		}
		if ident.ID == "" || ident.Type == "" {
			result.Errors = append(result.Errors, dto.ObjectError{
				Index:    i,
				ObjectID: ident.ID,
				Message:  "object is missing required id or type field",
			})
			metrics.ObjectsIngested.WithLabelValues("rejected").Inc()
			continue
		}
		if ident.SpecVersion == "" {
			ident.SpecVersion = DefaultSpecVersion
		}

		obj := &models.StixObject{
			ObjectID:    ident.ID,
			SpecVersion: ident.SpecVersion,
			Type:        ident.Type,
			Raw:         raw,
		}
		if _, err := ing.objects.Put(ctx, collectionID, obj, true); err != nil {
			result.Errors = append(result.Errors, dto.ObjectError{
				Index:    i,
				ObjectID: ident.ID,
				Message:  err.Error(),
			})
			metrics.ObjectsIngested.WithLabelValues("failed").Inc()
			continue
		}
		result.Ingested++
		metrics.ObjectsIngested.WithLabelValues("ingested").Inc()
	}
	return result, nil
}

// ParseBundle decodes a bundle-shaped document from raw bytes.
func ParseBundle(data []byte) (dto.IngestBundle, error) {
	var bundle dto.IngestBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return bundle, fmt.Errorf("parse bundle: %w", err)
	}
	return bundle, nil
}
