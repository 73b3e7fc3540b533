package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
)

const defaultSchemaPath = "docs/schema.sql"

// Migrate applies the idempotent schema (users + user_favorites). The path
// defaults to docs/schema.sql relative to the working directory;
// GAMESCOUT_SCHEMA overrides it for deployments that install the file
// elsewhere.
func Migrate(db *sql.DB) error {
	path := os.Getenv("GAMESCOUT_SCHEMA")
	if path == "" {
		path = defaultSchemaPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", path, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema %s: %w", path, err)
	}
	log.Printf("[db] schema applied from %s", path)
	return nil
}
