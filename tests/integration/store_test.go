package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sutms/taxii-api/internal/ingest"
	"github.com/sutms/taxii-api/internal/models"
	"github.com/sutms/taxii-api/internal/services"
	"github.com/sutms/taxii-api/pkg/dto"
	"github.com/sutms/taxii-api/tests/testutil"
)

func insertObjects(t *testing.T, svc *services.ObjectService, collectionID string, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		objectID := "indicator--" + id
		obj := &models.StixObject{
			ObjectID:    objectID,
			SpecVersion: "2.1",
			Type:        "indicator",
			Raw:         json.RawMessage(fmt.Sprintf(`{"type":"indicator","id":%q}`, objectID)),
		}
		_, err := svc.Put(ctx, collectionID, obj, false)
		require.NoError(t, err)
	}
}

func TestObjectService_Integration_PaginationReconstruction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewObjectService(tdb.DB)
	ctx := context.Background()

	col := fixtures.CreateCollection(t, testutil.WithCollectionID("c1"))
	inserted := []string{"o1", "o2", "o3", "o4", "o5"}
	insertObjects(t, svc, col.ID, inserted...)

	// stepping offset by limit over a fixed snapshot reconstructs the full
	// set in insertion order with no duplicates and no omissions
	var reconstructed []string
	limit := 2
	for offset := 0; ; offset += limit {
		objects, total, err := svc.Page(ctx, col.ID, limit, offset)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		if len(objects) == 0 {
			break
		}
		for _, obj := range objects {
			reconstructed = append(reconstructed, obj.ObjectID)
		}
	}

	require.Len(t, reconstructed, 5)
	for i, id := range inserted {
		assert.Equal(t, "indicator--"+id, reconstructed[i])
	}

	// offset beyond total is an empty page, not an error
	objects, total, err := svc.Page(ctx, col.ID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, objects)
}

func TestObjectService_Integration_DuplicateInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewObjectService(tdb.DB)
	ctx := context.Background()

	col := fixtures.CreateCollection(t)
	obj := &models.StixObject{
		ObjectID:    "indicator--dup",
		SpecVersion: "2.1",
		Type:        "indicator",
		Raw:         json.RawMessage(`{"type":"indicator","id":"indicator--dup"}`),
	}

	_, err := svc.Put(ctx, col.ID, obj, false)
	require.NoError(t, err)

	_, err = svc.Put(ctx, col.ID, obj, false)
	assert.ErrorIs(t, err, services.ErrDuplicateObject)
}

func TestObjectService_Integration_SameObjectInTwoCollections(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewObjectService(tdb.DB)
	ctx := context.Background()

	first := fixtures.CreateCollection(t)
	second := fixtures.CreateCollection(t)

	obj := &models.StixObject{
		ObjectID:    "indicator--shared",
		SpecVersion: "2.1",
		Type:        "indicator",
		Raw:         json.RawMessage(`{"type":"indicator","id":"indicator--shared"}`),
	}

	_, err := svc.Put(ctx, first.ID, obj, false)
	require.NoError(t, err)
	_, err = svc.Put(ctx, second.ID, obj, false)
	require.NoError(t, err)

	_, totalFirst, err := svc.Page(ctx, first.ID, 50, 0)
	require.NoError(t, err)
	_, totalSecond, err := svc.Page(ctx, second.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totalFirst)
	assert.Equal(t, int64(1), totalSecond)
}

func TestCollectionService_Integration_DeleteCascade(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	collectionService := services.NewCollectionService(tdb.DB)
	objectService := services.NewObjectService(tdb.DB)
	ctx := context.Background()

	col := fixtures.CreateCollection(t)
	insertObjects(t, objectService, col.ID, "o1", "o2", "o3")

	err := collectionService.Delete(ctx, col.ID)
	require.NoError(t, err)

	// a deleted collection is gone, not merely empty
	_, _, err = objectService.Page(ctx, col.ID, 50, 0)
	assert.ErrorIs(t, err, services.ErrUnknownCollection)

	_, err = collectionService.Get(ctx, col.ID)
	assert.ErrorIs(t, err, services.ErrCollectionNotFound)
}

func TestCollectionService_Integration_DerivedObjectCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	collectionService := services.NewCollectionService(tdb.DB)
	objectService := services.NewObjectService(tdb.DB)
	ctx := context.Background()

	col := fixtures.CreateCollection(t)

	got, err := collectionService.Get(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ObjectCount)

	insertObjects(t, objectService, col.ID, "o1", "o2")

	got, err = collectionService.Get(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ObjectCount)
}

func TestIngestor_Integration_Idempotence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	collectionService := services.NewCollectionService(tdb.DB)
	objectService := services.NewObjectService(tdb.DB)
	ing := ingest.NewIngestor(collectionService, objectService)
	ctx := context.Background()

	col := fixtures.CreateCollection(t)

	bundle := dto.IngestBundle{
		Type: "bundle",
		Objects: []json.RawMessage{
			json.RawMessage(`{"type":"indicator","id":"indicator--o1","spec_version":"2.1"}`),
			json.RawMessage(`{"type":"indicator","id":"indicator--o2","spec_version":"2.1"}`),
			json.RawMessage(`{"type":"malware","id":"malware--m1","spec_version":"2.1"}`),
		},
	}

	result, err := ing.LoadBundle(ctx, col.ID, bundle)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Ingested)

	first, _, err := objectService.Page(ctx, col.ID, 50, 0)
	require.NoError(t, err)

	// re-ingesting the same bundle neither duplicates rows nor reorders them
	result, err = ing.LoadBundle(ctx, col.ID, bundle)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Ingested)
	assert.Empty(t, result.Errors)

	got, err := collectionService.Get(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ObjectCount)

	second, _, err := objectService.Page(ctx, col.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].ObjectID, second[i].ObjectID)
		assert.Equal(t, first[i].CreatedAt, second[i].CreatedAt)
	}
}
