package main

import (
	"context"
	"flag"
	"log"
	"time"

	"gamescout/internal/catalog"
	"gamescout/pkg/utils"
)

func main() {
	var (
		maxPages  = flag.Int("max-pages", 5, "maximum RAWG pages to fetch")
		pageSize  = flag.Int("page-size", 40, "records per RAWG page")
		genres    = flag.String("genres", "", "comma-separated genre slugs filter")
		platforms = flag.String("platforms", "", "comma-separated platform ids filter")
		ordering  = flag.String("ordering", "-rating", "RAWG ordering")
		ndjson    = flag.Bool("ndjson", true, "also rewrite the NDJSON rendition")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := utils.LoadCatalogConfig()
	client, err := catalog.NewRawgClient(cfg.RawgAPIKey)
	if err != nil {
		log.Fatalf("rawg client: %v (set GAMESCOUT_RAWG_KEY)", err)
	}

	log.Printf("[sync-catalog] fetching up to %d pages of %d", *maxPages, *pageSize)
	games, err := client.FetchAll(ctx, *maxPages, *pageSize, catalog.ListFilters{
		Genres:    *genres,
		Platforms: *platforms,
		Ordering:  *ordering,
	})
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
	log.Printf("[sync-catalog] downloaded %d games", len(games))

	store := catalog.NewStore(cfg.JSONPath)
	if err := store.Save(games); err != nil {
		log.Fatalf("save failed: %v", err)
	}
	log.Printf("[sync-catalog] catalog written to %s", cfg.JSONPath)

	if *ndjson {
		count, err := store.ToNDJSON(cfg.NDJSONPath)
		if err != nil {
			log.Fatalf("ndjson convert failed: %v", err)
		}
		log.Printf("[sync-catalog] %d records converted to %s", count, cfg.NDJSONPath)
	}
}
