// Package stats tracks how many queries the engine has served, durably,
// so the count survives process restarts. The record is a small JSON
// file rewritten atomically (temp file + rename) on every increment.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campusbot/collegebot/log"
)

// Record is the persisted usage-counter state. ActiveStudents is a
// seeded placeholder value with no real data source behind it; it is
// carried through the file untouched.
type Record struct {
	TotalQueries   int `json:"total_queries"`
	ActiveStudents int `json:"active_students"`
}

// defaultRecord is used when the stats file is missing or unreadable.
var defaultRecord = Record{TotalQueries: 0, ActiveStudents: 12}

// Counter is a durable query counter backed by a JSON file. All access
// goes through a mutex, so concurrent increments within one process do
// not lose updates.
type Counter struct {
	mu     sync.Mutex
	path   string
	logger log.Logger
}

// NewCounter creates a counter persisted at path, seeding the file with
// the default record if it does not exist yet.
func NewCounter(path string, logger log.Logger) (*Counter, error) {
	if path == "" {
		return nil, fmt.Errorf("stats path is required")
	}
	if logger == nil {
		logger = log.NopLogger{}
	}

	c := &Counter{path: path, logger: logger}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := c.write(defaultRecord); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Increment adds one served query to the durable record. A corrupt or
// unreadable file is replaced with the default record rather than
// failing the request.
func (c *Counter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.read()
	rec.TotalQueries++
	if err := c.write(rec); err != nil {
		c.logger.Warn("stats: failed to persist query count: %v", err)
	}
}

// Snapshot returns the current durable record.
func (c *Counter) Snapshot() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// read loads the record, falling back to the default on any failure.
// Callers must hold the mutex.
func (c *Counter) read() Record {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("stats: failed to read %s: %v", c.path, err)
		}
		return defaultRecord
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.Warn("stats: corrupt record in %s, resetting: %v", c.path, err)
		return defaultRecord
	}
	return rec
}

// write persists the record atomically. Callers must hold the mutex.
func (c *Counter) write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create stats directory: %w", err)
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace stats file: %w", err)
	}
	return nil
}
