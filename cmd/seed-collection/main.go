package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sutms/taxii-api/internal/config"
	"github.com/sutms/taxii-api/internal/database"
	"github.com/sutms/taxii-api/internal/services"
)

func main() {
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Println("Usage: seed-collection <id> <title> [description]")
		os.Exit(1)
	}

	id := os.Args[1]
	title := os.Args[2]
	description := ""
	if len(os.Args) == 4 {
		description = os.Args[3]
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

	collectionService := services.NewCollectionService(db)

	collection, err := collectionService.Create(ctx, id, title, description)
	if err != nil {
		log.Fatalf("Failed to create collection: %v", err)
	}

	fmt.Printf("Created collection %s (%s)\n", collection.ID, collection.Title)
}
