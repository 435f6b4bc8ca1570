package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sutms/taxii-api/internal/database"
	"github.com/sutms/taxii-api/internal/models"
)

var (
	ErrUnknownCollection = errors.New("collection does not exist")
	ErrDuplicateObject   = errors.New("object already exists in collection")
	ErrObjectNotFound    = errors.New("object not found in collection")
)

type ObjectService struct {
	db *database.DB
}

func NewObjectService(db *database.DB) *ObjectService {
	return &ObjectService{db: db}
}

// Put inserts one object into a collection. With upsert set, a row that
// collides on (collection_id, object_id, spec_version) is replaced in place
// and keeps its original created_at, so re-ingesting a bundle never moves
// objects within the collection ordering.
func (s *ObjectService) Put(ctx context.Context, collectionID string, obj *models.StixObject, upsert bool) (*models.StixObject, error) {
	query := `
		INSERT INTO stix_objects (collection_id, object_id, spec_version, object_type, raw)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if upsert {
		query = `
			INSERT INTO stix_objects (collection_id, object_id, spec_version, object_type, raw)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (collection_id, object_id, spec_version) DO UPDATE SET
				object_type = EXCLUDED.object_type,
				raw = EXCLUDED.raw
			RETURNING id, created_at
		`
	}

	stored := *obj
	stored.CollectionID = collectionID
	err := s.db.Pool.QueryRow(ctx, query,
		collectionID, obj.ObjectID, obj.SpecVersion, obj.Type, obj.Raw,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return nil, ErrUnknownCollection
			case "23505":
				return nil, ErrDuplicateObject
			}
		}
		return nil, err
	}
	return &stored, nil
}

// Page returns up to limit objects starting at offset within the collection
// ordering, plus the collection's total object count. Ordering is ingestion
// order with the surrogate key as tie-break; both are immutable, so page
// boundaries stay put while new objects are appended.
func (s *ObjectService) Page(ctx context.Context, collectionID string, limit, offset int) ([]models.StixObject, int64, error) {
	var exists string
	err := s.db.Pool.QueryRow(ctx, `SELECT id FROM collections WHERE id = $1`, collectionID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrUnknownCollection
		}
		return nil, 0, err
	}

	var total int64
	err = s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM stix_objects WHERE collection_id = $1
	`, collectionID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, collection_id, object_id, spec_version, object_type, raw, created_at
		FROM stix_objects WHERE collection_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, collectionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var objects []models.StixObject
	for rows.Next() {
		var o models.StixObject
		if err := rows.Scan(
			&o.ID, &o.CollectionID, &o.ObjectID, &o.SpecVersion,
			&o.Type, &o.Raw, &o.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return objects, total, nil
}

// Delete removes one object by its composite key.
func (s *ObjectService) Delete(ctx context.Context, collectionID, objectID, specVersion string) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM stix_objects
		WHERE collection_id = $1 AND object_id = $2 AND spec_version = $3
	`, collectionID, objectID, specVersion)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrObjectNotFound
	}
	return nil
}

// DeleteCollectionObjects removes every object under a collection. Only
// called as part of deleting the collection itself.
func (s *ObjectService) DeleteCollectionObjects(ctx context.Context, collectionID string) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM stix_objects WHERE collection_id = $1`, collectionID)
	return err
}
