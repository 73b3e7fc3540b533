package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("GAMESCOUT_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("GAMESCOUT_JWT_ISSUER")
	if issuer == "" {
		issuer = "gamescout"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("GAMESCOUT_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// CatalogConfig locates the cached catalog files and carries the RAWG key.
// The key may be empty; syncing then fails with a clear error while the
// seeded recommender and any already-cached catalog keep working.
type CatalogConfig struct {
	RawgAPIKey string
	JSONPath   string
	NDJSONPath string
}

func LoadCatalogConfig() CatalogConfig {
	dataDir := os.Getenv("GAMESCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "app_data"
	}

	jsonPath := os.Getenv("GAMESCOUT_CATALOG_JSON")
	if jsonPath == "" {
		jsonPath = filepath.Join(dataDir, "catalog_games.json")
	}
	ndjsonPath := os.Getenv("GAMESCOUT_CATALOG_NDJSON")
	if ndjsonPath == "" {
		ndjsonPath = filepath.Join(dataDir, "catalog_games.ndjson")
	}

	return CatalogConfig{
		RawgAPIKey: os.Getenv("GAMESCOUT_RAWG_KEY"),
		JSONPath:   jsonPath,
		NDJSONPath: ndjsonPath,
	}
}
