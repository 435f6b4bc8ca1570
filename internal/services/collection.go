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
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionExists   = errors.New("collection already exists")
)

type CollectionService struct {
	db *database.DB
}

func NewCollectionService(db *database.DB) *CollectionService {
	return &CollectionService{db: db}
}

// Get returns a collection with its object count. The count is computed from
// the stored rows on every read; it is never persisted.
func (s *CollectionService) Get(ctx context.Context, collectionID string) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		SELECT c.id, c.title, c.description, c.created_at, COUNT(o.id)
		FROM collections c
		LEFT JOIN stix_objects o ON o.collection_id = c.id
		WHERE c.id = $1
		GROUP BY c.id, c.title, c.description, c.created_at
	`, collectionID).Scan(
		&collection.ID, &collection.Title, &collection.Description,
		&collection.CreatedAt, &collection.ObjectCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (s *CollectionService) List(ctx context.Context) ([]models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.id, c.title, c.description, c.created_at, COUNT(o.id)
		FROM collections c
		LEFT JOIN stix_objects o ON o.collection_id = c.id
		GROUP BY c.id, c.title, c.description, c.created_at
		ORDER BY c.created_at, c.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.ObjectCount,
		); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collections, nil
}

// Create registers a new collection under an externally supplied id. Ids are
// immutable once created.
func (s *CollectionService) Create(ctx context.Context, id, title, description string) (*models.Collection, error) {
	collection := models.Collection{
		ID:          id,
		Title:       title,
		Description: description,
	}
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (id, title, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, id, title, description).Scan(&collection.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrCollectionExists
		}
		return nil, err
	}
	return &collection, nil
}

// Delete removes a collection and every object stored under it in one
// transaction. No dangling object rows survive.
func (s *CollectionService) Delete(ctx context.Context, collectionID string) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM stix_objects WHERE collection_id = $1`, collectionID); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, collectionID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}

	return tx.Commit(ctx)
}
