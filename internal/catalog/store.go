package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gamescout/pkg/models"
)

// Store persists the raw catalog exactly as fetched: a single JSON array
// file, plus an NDJSON rendition (one record per line) for streaming scans.
// The cached data is best-effort third-party content, so reads are fail-soft:
// a missing or corrupt JSON file loads as empty, and corrupt NDJSON lines
// are skipped without being reported.
type Store struct {
	FilePath string
}

func NewStore(filePath string) *Store {
	return &Store{FilePath: filePath}
}

func (s *Store) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Save overwrites the JSON catalog file with the given records.
func (s *Store) Save(items []models.RawGame) error {
	if err := s.ensureDir(s.FilePath); err != nil {
		return fmt.Errorf("ensure catalog dir: %w", err)
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(s.FilePath, b, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Load reads the whole JSON catalog. Missing file and undecodable content
// both load as an empty catalog.
func (s *Store) Load() ([]models.RawGame, error) {
	b, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var items []models.RawGame
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// ToNDJSON rewrites the JSON catalog as one record per line at ndjsonPath and
// returns how many records were written.
func (s *Store) ToNDJSON(ndjsonPath string) (int, error) {
	items, err := s.Load()
	if err != nil {
		return 0, err
	}
	if err := s.ensureDir(ndjsonPath); err != nil {
		return 0, fmt.Errorf("ensure ndjson dir: %w", err)
	}

	f, err := os.Create(ndjsonPath)
	if err != nil {
		return 0, fmt.Errorf("create ndjson: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	count := 0
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return count, fmt.Errorf("write ndjson line: %w", err)
		}
		count++
	}
	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("flush ndjson: %w", err)
	}
	return count, nil
}

// EnsureNDJSON makes sure the NDJSON rendition exists, synthesizing it from
// the JSON catalog when missing. Steady-state reads never pay this cost.
func (s *Store) EnsureNDJSON(ndjsonPath string) error {
	if _, err := os.Stat(ndjsonPath); err == nil {
		return nil
	}
	if _, err := s.ToNDJSON(ndjsonPath); err != nil {
		return fmt.Errorf("synthesize ndjson: %w", err)
	}
	return nil
}

// ForEachNDJSON streams the NDJSON file one record at a time, calling fn for
// each decodable line. Blank and corrupt lines are skipped. fn returning
// false stops the scan early. The file handle is released on every exit path.
func (s *Store) ForEachNDJSON(ndjsonPath string, fn func(models.RawGame) bool) error {
	f, err := os.Open(ndjsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open ndjson: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	// catalog records carry long tag lists; the default 64K line cap is too low
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var item models.RawGame
		if err := json.Unmarshal(line, &item); err != nil {
			continue
		}
		if !fn(item) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan ndjson: %w", err)
	}
	return nil
}
