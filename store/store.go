// Package store reads and writes the JSON database of the fin tool.
//
// The database is a single JSON object whose keys are collections, each an
// array of records identified by their "id" field, in the layout used by
// json-server. Records are always replaced whole. Keys that do not hold an
// array are kept untouched.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
)

// Collection names.
const (
	Savings       = "savings"
	FixedDeposits = "fixedDeposits"
	PPF           = "ppf"
	Stocks        = "stocks"
	SGB           = "sgb"
	Metals        = "metals"
)

// ErrNotFound reports an unknown record.
var ErrNotFound = errors.New("record not found")

// DB is a JSON database file loaded in memory. Every change is written back
// to the file before returning.
type DB struct {
	path        string
	logger      zerolog.Logger
	collections map[string][]json.RawMessage
	others      map[string]json.RawMessage
}

// Open loads the database at path. A missing file is an empty database, created
// on the first write.
func Open(path string, logger zerolog.Logger) (*DB, error) {
	db := &DB{
		path:        path,
		logger:      logger,
		collections: make(map[string][]json.RawMessage),
		others:      make(map[string]json.RawMessage),
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug().Str("path", path).Msg("database not found, starting empty")
		return db, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return db, nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for key, raw := range root {
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			db.others[key] = raw
			continue
		}
		db.collections[key] = records
	}
	logger.Debug().Str("path", path).Int("collections", len(db.collections)).Msg("database opened")
	return db, nil
}

// Path returns the file backing the database.
func (db *DB) Path() string { return db.path }

// Collections returns the names of the collections in order.
func (db *DB) Collections() []string {
	return slices.Sorted(maps.Keys(db.collections))
}

// List returns the records of a collection. An unknown collection is empty.
func (db *DB) List(collection string) []json.RawMessage {
	return slices.Clone(db.collections[collection])
}

// Get returns the record with the given id.
func (db *DB) Get(collection, id string) (json.RawMessage, error) {
	i := db.index(collection, id)
	if i < 0 {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return db.collections[collection][i], nil
}

// Put replaces the record with the given id, or appends it, and writes the
// database.
func (db *DB) Put(collection, id string, record json.RawMessage) error {
	if got, err := recordID(record); err != nil || got != id {
		return fmt.Errorf("%s/%s: record has id %q", collection, id, got)
	}
	records := slices.Clone(db.collections[collection])
	if i := db.index(collection, id); i >= 0 {
		records[i] = record
	} else {
		records = append(records, record)
	}
	db.collections[collection] = records
	db.logger.Debug().Str("collection", collection).Str("id", id).Msg("record saved")
	return db.flush()
}

// Delete removes the record with the given id and writes the database.
func (db *DB) Delete(collection, id string) error {
	i := db.index(collection, id)
	if i < 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	db.collections[collection] = slices.Delete(slices.Clone(db.collections[collection]), i, i+1)
	db.logger.Debug().Str("collection", collection).Str("id", id).Msg("record deleted")
	return db.flush()
}

// Query evaluates a JSONPath expression, like "$.stocks[*].ticker", against
// the whole database.
func (db *DB) Query(path string) (any, error) {
	data, err := db.marshal()
	if err != nil {
		return nil, err
	}
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode database: %w", err)
	}
	v, err := jsonpath.Get(path, root)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return v, nil
}

func (db *DB) index(collection, id string) int {
	return slices.IndexFunc(db.collections[collection], func(raw json.RawMessage) bool {
		got, err := recordID(raw)
		return err == nil && got == id
	})
}

// recordID returns the id of a record. Numeric ids are returned as written.
func recordID(raw json.RawMessage) (string, error) {
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", err
	}
	id := bytes.TrimSpace(head.ID)
	if len(id) > 0 && id[0] == '"' {
		var s string
		if err := json.Unmarshal(id, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if len(id) == 0 || string(id) == "null" {
		return "", errors.New("record without id")
	}
	return string(id), nil
}

func (db *DB) marshal() ([]byte, error) {
	root := make(map[string]any, len(db.collections)+len(db.others))
	for k, v := range db.others {
		root[k] = v
	}
	for k, v := range db.collections {
		root[k] = v
	}
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// flush writes the database atomically: to a temporary file in the same
// directory, then renamed over the target.
func (db *DB) flush() error {
	data, err := db.marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(db.path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, db.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
