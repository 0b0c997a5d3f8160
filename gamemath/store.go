package gamemath

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrHashMismatch is returned when a sheet's content hash does not match its contents.
var ErrHashMismatch = errors.New("gamemath: content hash mismatch")

// Store keeps computed math sheets by model_id and mirrors them to
// <dataDir>/game_math.json as a readable report. Sheets are derived data: they are
// recomputed at startup, the file is never read back into the engine.
type Store struct {
	mu      sync.RWMutex
	math    map[string]*GameMath
	dataDir string
}

func NewStore(dataDir string) *Store {
	if dataDir == "" {
		dataDir = "data"
	}
	return &Store{
		math:    make(map[string]*GameMath),
		dataDir: dataDir,
	}
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, "game_math.json")
}

// saveLocked writes the report. Caller must hold s.mu.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.listLocked(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0644)
}

// Register stores a sheet by its model_id, replacing any previous one. A sheet whose
// integrity hash does not match its contents is rejected.
func (s *Store) Register(math *GameMath) error {
	if math == nil || math.ModelID == "" {
		return nil
	}
	if math.Integrity != nil && math.Integrity.ContentHash != contentHash(math) {
		return ErrHashMismatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.math[math.ModelID] = math
	return s.saveLocked()
}

// Get returns the sheet for modelID, or nil.
func (s *Store) Get(modelID string) *GameMath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.math[modelID]
}

// List returns all sheets ordered by model_id.
func (s *Store) List() []*GameMath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *Store) listLocked() []*GameMath {
	list := make([]*GameMath, 0, len(s.math))
	for _, m := range s.math {
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ModelID < list[j].ModelID })
	return list
}
