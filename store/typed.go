package store

import (
	"encoding/json"
	"fmt"
)

// Load decodes the record with the given id.
func Load[T any](db *DB, collection, id string) (T, error) {
	var v T
	raw, err := db.Get(collection, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%s/%s: %w", collection, id, err)
	}
	return v, nil
}

// LoadAll decodes every record of a collection. Records that cannot be
// decoded are logged and skipped.
func LoadAll[T any](db *DB, collection string) []T {
	var all []T
	for i, raw := range db.collections[collection] {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			db.logger.Warn().Err(err).Str("collection", collection).Int("index", i).Msg("skipping record")
			continue
		}
		all = append(all, v)
	}
	return all
}

// Save encodes v and stores it under id.
func Save(db *DB, collection, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", collection, id, err)
	}
	return db.Put(collection, id, raw)
}
