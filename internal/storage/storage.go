package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

const snapshotFile = "snapshot.json"

// Storage handles persistence of exports and revision snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// WriteFile stores data under name in the data directory and returns the full path.
// Path separators in name are replaced so every file lands directly in the directory.
func (s *Storage) WriteFile(name string, data []byte) (string, error) {
	clean := strings.NewReplacer("/", "-", `\`, "-").Replace(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid file name: %q", name)
	}

	path := filepath.Join(s.dataDir, clean)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", clean, err)
	}
	return path, nil
}

// WriteJSON stores v as indented JSON under name
func (s *Storage) WriteJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	return s.WriteFile(name, append(data, '\n'))
}

// Revision is the last-seen state of one calendar
type Revision struct {
	Name         string     `json:"name"`
	Semester     string     `json:"semester"`
	Year         int        `json:"year"`
	RevisionDate event.Date `json:"revision_date"`
	CheckedAt    time.Time  `json:"checked_at"`
}

// Snapshot maps calendar paths to their last-seen revision
type Snapshot struct {
	Calendars map[string]*Revision `json:"calendars"`
	UpdatedAt string               `json:"updated_at"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Calendars: make(map[string]*Revision),
	}
}

// Record stores rev for path and returns the previously recorded revision (nil
// for a calendar not seen before) and whether the revision date changed.
func (s *Snapshot) Record(path string, rev *Revision) (*Revision, bool) {
	previous := s.Calendars[path]
	s.Calendars[path] = rev
	if previous == nil {
		return nil, true
	}
	return previous, previous.RevisionDate != rev.RevisionDate
}

// LoadSnapshot loads the snapshot from disk. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	path := filepath.Join(s.dataDir, snapshotFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Calendars == nil {
		snapshot.Calendars = make(map[string]*Revision)
	}

	return &snapshot, nil
}

// SaveSnapshot saves the snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if _, err := s.WriteJSON(snapshotFile, snapshot); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}
