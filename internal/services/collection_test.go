package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sutms/taxii-api/internal/database"
)

func setupCollectionService(t *testing.T) (*CollectionService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewCollectionService(db), mock
}

func TestCollectionService_Get(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "title", "description", "created_at", "count"}).
		AddRow("c1", "Test Collection", "A collection", now, int64(42))

	mock.ExpectQuery(`SELECT .+ FROM collections c`).
		WithArgs("c1").
		WillReturnRows(rows)

	col, err := svc.Get(ctx, "c1")

	require.NoError(t, err)
	assert.Equal(t, "c1", col.ID)
	assert.Equal(t, "Test Collection", col.Title)
	assert.Equal(t, int64(42), col.ObjectCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_Get_NotFound(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM collections c`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(ctx, "missing")

	assert.ErrorIs(t, err, ErrCollectionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_List(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "title", "description", "created_at", "count"}).
		AddRow("c1", "Collection 1", "", now, int64(3)).
		AddRow("c2", "Collection 2", "", now, int64(0))

	mock.ExpectQuery(`SELECT .+ FROM collections c`).
		WillReturnRows(rows)

	collections, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, int64(3), collections[0].ObjectCount)
	assert.Equal(t, int64(0), collections[1].ObjectCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_List_Empty(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM collections c`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "created_at", "count"}))

	collections, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Empty(t, collections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_Create(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO collections`).
		WithArgs("c1", "Test Collection", "A collection").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	col, err := svc.Create(ctx, "c1", "Test Collection", "A collection")

	require.NoError(t, err)
	assert.Equal(t, "c1", col.ID)
	assert.Equal(t, now, col.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_Create_Duplicate(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO collections`).
		WithArgs("c1", "Test Collection", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(ctx, "c1", "Test Collection", "")

	assert.ErrorIs(t, err, ErrCollectionExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_Delete(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM stix_objects`).
		WithArgs("c1").
		WillReturnResult(pgxmock.NewResult("DELETE", 5))
	mock.ExpectExec(`DELETE FROM collections`).
		WithArgs("c1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := svc.Delete(ctx, "c1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionService_Delete_NotFound(t *testing.T) {
	svc, mock := setupCollectionService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM stix_objects`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM collections`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := svc.Delete(ctx, "missing")

	assert.ErrorIs(t, err, ErrCollectionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
