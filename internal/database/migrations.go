package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS collections (
		id VARCHAR(100) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS stix_objects (
		id BIGSERIAL PRIMARY KEY,
		collection_id VARCHAR(100) NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		object_id VARCHAR(255) NOT NULL,
		spec_version VARCHAR(20) NOT NULL DEFAULT '2.1',
		object_type VARCHAR(100) NOT NULL,
		raw JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(collection_id, object_id, spec_version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stix_objects_collection_id ON stix_objects(collection_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stix_objects_object_id ON stix_objects(object_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stix_objects_object_type ON stix_objects(object_type)`,

	// Pagination orders on (created_at, id); keep it index-backed per collection.
	`CREATE INDEX IF NOT EXISTS idx_stix_objects_collection_order ON stix_objects(collection_id, created_at, id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
