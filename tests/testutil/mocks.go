package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/sutms/taxii-api/internal/models"
)

// MockCollectionService mocks the CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Get(ctx context.Context, collectionID string) (*models.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) List(ctx context.Context) ([]models.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

// MockObjectService mocks the ObjectService
type MockObjectService struct {
	mock.Mock
}

func (m *MockObjectService) Page(ctx context.Context, collectionID string, limit, offset int) ([]models.StixObject, int64, error) {
	args := m.Called(ctx, collectionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.StixObject), args.Get(1).(int64), args.Error(2)
}

func (m *MockObjectService) Put(ctx context.Context, collectionID string, obj *models.StixObject, upsert bool) (*models.StixObject, error) {
	args := m.Called(ctx, collectionID, obj, upsert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StixObject), args.Error(1)
}
