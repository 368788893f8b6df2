// Package history persists a bounded, newest-first log of past
// transcripts.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scribe/internal/config"
)

// MaxEntries is the capacity bound; append evicts the oldest entry
// (the last element, since the log is kept newest-first) once full.
const MaxEntries = 100

// Entry is a persisted Transcript plus the timestamp it landed at.
// Field tags match the documented history file shape exactly.
type Entry struct {
	Text            string  `json:"text"`
	Language        string  `json:"language"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       int64   `json:"timestamp"`
	Model           string  `json:"model"`
}

// Log is a bounded, mutex-guarded, disk-persisted history. Grounded on
// the teacher's load-or-default/save-after-mutation idiom (see
// internal/config/config.go) generalized from a single settings
// object to a capacity-bounded list, and on
// original_source/core/history.py's load/save-on-every-mutation shape.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// Load reads the history file from disk, returning an empty Log if
// it is missing. A parse failure moves the corrupt file aside and
// starts empty rather than losing the ability to record new entries.
func Load() *Log {
	l := &Log{}
	path, err := filePath()
	if err != nil {
		fmt.Printf("[history] could not determine history path: %v\n", err)
		return l
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("[history] failed to read history file: %v\n", err)
		}
		return l
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		fmt.Printf("[history] failed to parse history file, moving aside: %v\n", err)
		moveAside(path)
		return l
	}
	l.entries = entries
	return l
}

func moveAside(path string) {
	dest := path + ".corrupt." + time.Now().UTC().Format("20060102150405")
	if err := os.Rename(path, dest); err != nil {
		fmt.Printf("[history] failed to move corrupt history file aside: %v\n", err)
	}
}

// Append inserts entry at the front (newest-first) and evicts the
// oldest entry if the log is at capacity, then persists.
func (l *Log) Append(entry Entry) error {
	l.mu.Lock()
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	snapshot := append([]Entry(nil), l.entries...)
	l.mu.Unlock()

	return save(snapshot)
}

// List returns a newest-first snapshot of the current entries.
func (l *Log) List() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Clear empties the log and persists the empty state.
func (l *Log) Clear() error {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
	return save(nil)
}

func save(entries []Entry) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

func filePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}
