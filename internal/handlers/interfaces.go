package handlers

import (
	"context"

	"github.com/sutms/taxii-api/internal/models"
)

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	Get(ctx context.Context, collectionID string) (*models.Collection, error)
	List(ctx context.Context) ([]models.Collection, error)
}

// ObjectServiceInterface defines the methods used by handlers from ObjectService
type ObjectServiceInterface interface {
	Page(ctx context.Context, collectionID string, limit, offset int) ([]models.StixObject, int64, error)
}
