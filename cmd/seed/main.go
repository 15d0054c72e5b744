// Seeds the verse catalog from a JSON file. Re-running updates existing
// verses in place, so the catalog can be corrected without wiping reads.
//
// Usage: seed [path/to/verses.json]
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gitadaily/gita-daily-api/internal/database"
	"github.com/gitadaily/gita-daily-api/internal/verses"
	"github.com/gitadaily/gita-daily-api/pkg/config"
)

type seedVerse struct {
	Chapter         int    `json:"chapter"`
	Verse           int    `json:"verse"`
	Sanskrit        string `json:"sanskrit"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
	SourceKey       string `json:"source_key"`
}

func main() {
	path := "data/verses.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	var seed []seedVerse
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("failed to parse %s: %v", path, err)
	}
	if len(seed) == 0 {
		log.Fatalf("%s contains no verses", path)
	}

	cfg := config.LoadConfig()
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	batch := make([]verses.Verse, 0, len(seed))
	for _, v := range seed {
		batch = append(batch, verses.Verse{
			ChapterNumber:   v.Chapter,
			VerseNumber:     v.Verse,
			SanskritText:    v.Sanskrit,
			Transliteration: v.Transliteration,
			Translation:     v.Translation,
			SourceKey:       v.SourceKey,
		})
	}

	repo := verses.NewRepository(db)
	if err := repo.UpsertBatch(ctx, batch); err != nil {
		log.Fatalf("failed to seed verses: %v", err)
	}

	log.Printf("Seeded %d verses from %s", len(batch), path)
}
