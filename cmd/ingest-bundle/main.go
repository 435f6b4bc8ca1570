package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sutms/taxii-api/internal/config"
	"github.com/sutms/taxii-api/internal/database"
	"github.com/sutms/taxii-api/internal/ingest"
	"github.com/sutms/taxii-api/internal/services"
)

func main() {
	var (
		file        = flag.String("file", "", "path to a STIX bundle JSON file")
		collection  = flag.String("collection", "default_collection", "target collection id")
		create      = flag.Bool("create", false, "create the target collection if it does not exist")
		title       = flag.String("title", "Default Collection", "collection title when -create is set")
		description = flag.String("description", "Default collection for STIX objects", "collection description when -create is set")
	)
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: ingest-bundle -file <bundle.json> [-collection <id>] [-create]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read bundle file: %v", err)
	}

	bundle, err := ingest.ParseBundle(data)
	if err != nil {
		log.Fatalf("Failed to parse bundle: %v", err)
	}

	collectionService := services.NewCollectionService(db)
	objectService := services.NewObjectService(db)

	if *create {
		if _, err := collectionService.Create(ctx, *collection, *title, *description); err != nil {
			if !errors.Is(err, services.ErrCollectionExists) {
				log.Fatalf("Failed to create collection: %v", err)
			}
		}
	}

	ingestor := ingest.NewIngestor(collectionService, objectService)
	result, err := ingestor.LoadBundle(ctx, *collection, bundle)
	if err != nil {
		log.Fatalf("Failed to ingest bundle: %v", err)
	}

	for _, objErr := range result.Errors {
		log.Printf("object %d (%s): %s", objErr.Index, objErr.ObjectID, objErr.Message)
	}

	fmt.Printf("Ingested %d objects into collection %s (%d errors)\n",
		result.Ingested, *collection, len(result.Errors))

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
