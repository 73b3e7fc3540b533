package main

import (
	"flag"
	"log"

	"gamescout/internal/catalog"
	"gamescout/pkg/utils"
)

// Rewrites the cached JSON catalog as NDJSON so the streaming endpoints can
// scan it line by line.
func main() {
	cfg := utils.LoadCatalogConfig()

	var (
		in  = flag.String("in", cfg.JSONPath, "JSON catalog path")
		out = flag.String("out", cfg.NDJSONPath, "NDJSON output path")
	)
	flag.Parse()

	store := catalog.NewStore(*in)
	count, err := store.ToNDJSON(*out)
	if err != nil {
		log.Fatalf("convert failed: %v", err)
	}
	log.Printf("[export-ndjson] %d records written to %s", count, *out)
}
