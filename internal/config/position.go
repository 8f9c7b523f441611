package config

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

// PositionStore persists the button's resting position across restarts.
type PositionStore struct {
	path string
	now  func() time.Time
}

type storedPosition struct {
	X       int       `json:"x"`
	Y       int       `json:"y"`
	SavedAt time.Time `json:"saved_at"`
}

// NewPositionStore returns a store backed by the JSON file at path.
func NewPositionStore(path string) *PositionStore {
	return &PositionStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *PositionStore) Path() string { return s.path }

// Load returns the saved position. ok is false when nothing was saved yet.
func (s *PositionStore) Load() (pos image.Point, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return image.Point{}, false, nil
		}
		return image.Point{}, false, err
	}
	var stored storedPosition
	if err := json.Unmarshal(data, &stored); err != nil {
		return image.Point{}, false, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return image.Pt(stored.X, stored.Y), true, nil
}

// Save writes pos atomically.
func (s *PositionStore) Save(pos image.Point) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(storedPosition{X: pos.X, Y: pos.Y, SavedAt: s.now().UTC()}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".position-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Reset forgets the saved position.
func (s *PositionStore) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
