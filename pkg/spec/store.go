package spec

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Metadata is the bookkeeping kept alongside each stored spec.
type Metadata struct {
	SpecID    string    `json:"spec_id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"time"`
}

// specFile is the on-disk representation under <base>/<spec-id>/spec.json.
type specFile struct {
	SpecID    string       `json:"spec_id"`
	Topic     string       `json:"topic"`
	CreatedAt time.Time    `json:"time"`
	Spec      DocumentSpec `json:"spec"`
}

// Store keeps specs in memory and mirrors them to disk so they survive
// process restarts. Each spec lives in its own directory, which is also
// where generation output for that spec lands.
type Store struct {
	mu      sync.RWMutex
	baseDir string
	specs   map[string]DocumentSpec
	meta    map[string]Metadata
}

// NewStore creates the base directory if needed and loads any specs
// already on disk. Unreadable spec files are skipped with a warning.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create spec storage dir: %w", err)
	}

	s := &Store{
		baseDir: baseDir,
		specs:   make(map[string]DocumentSpec),
		meta:    make(map[string]Metadata),
	}
	s.loadFromDisk()
	return s, nil
}

// IDForTopic derives the deterministic spec id for a topic. The same
// topic always maps to the same id, so regenerating a spec overwrites
// the previous one instead of accumulating duplicates.
func IDForTopic(topic string) string {
	sum := md5.Sum([]byte(topic))
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		// 16 bytes in, cannot fail
		panic(err)
	}
	return id.String()
}

// Save stores the spec under the given id and writes it to disk.
func (s *Store) Save(id string, doc DocumentSpec) error {
	meta := Metadata{SpecID: id, Topic: doc.Topic, CreatedAt: time.Now()}

	if err := s.writeToDisk(id, doc, meta); err != nil {
		return err
	}

	s.mu.Lock()
	s.specs[id] = doc
	s.meta[id] = meta
	s.mu.Unlock()
	return nil
}

// Get returns the spec for an id.
func (s *Store) Get(id string) (DocumentSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.specs[id]
	if !ok {
		return DocumentSpec{}, &NotFoundError{ID: id}
	}
	return doc, nil
}

// Update replaces an existing spec. Unknown ids are an error; use Save
// to create.
func (s *Store) Update(id string, doc DocumentSpec) error {
	s.mu.RLock()
	meta, ok := s.meta[id]
	s.mu.RUnlock()
	if !ok {
		return &NotFoundError{ID: id}
	}

	meta.Topic = doc.Topic
	if err := s.writeToDisk(id, doc, meta); err != nil {
		return err
	}

	s.mu.Lock()
	s.specs[id] = doc
	s.meta[id] = meta
	s.mu.Unlock()
	return nil
}

// Delete removes a spec from memory and disk. Unknown ids return a
// NotFoundError, matching Get and Update.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.specs[id]
	delete(s.specs, id)
	delete(s.meta, id)
	s.mu.Unlock()

	if !ok {
		return &NotFoundError{ID: id}
	}
	return os.RemoveAll(s.Dir(id))
}

// List returns metadata for every stored spec, newest first.
func (s *Store) List() []Metadata {
	s.mu.RLock()
	out := make([]Metadata, 0, len(s.meta))
	for _, m := range s.meta {
		out = append(out, m)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Dir returns the storage directory for a spec. Generation output for
// that spec is written there too.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

func (s *Store) writeToDisk(id string, doc DocumentSpec, meta Metadata) error {
	dir := s.Dir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create spec dir: %w", err)
	}

	payload := specFile{SpecID: id, Topic: meta.Topic, CreatedAt: meta.CreatedAt, Spec: doc}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "spec.json"), data, 0o644); err != nil {
		return fmt.Errorf("write spec file: %w", err)
	}
	return nil
}

func (s *Store) loadFromDisk() {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		log.Warn().Str("component", "spec").Err(err).Msg("Failed to scan spec storage dir")
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name(), "spec.json")
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn().Str("component", "spec").Str("path", path).Err(err).Msg("Failed to read spec file")
			}
			continue
		}

		var payload specFile
		if err := json.Unmarshal(data, &payload); err != nil {
			log.Warn().Str("component", "spec").Str("path", path).Err(err).Msg("Skipping malformed spec file")
			continue
		}

		s.specs[payload.SpecID] = payload.Spec
		s.meta[payload.SpecID] = Metadata{SpecID: payload.SpecID, Topic: payload.Topic, CreatedAt: payload.CreatedAt}
	}

	if len(s.specs) > 0 {
		log.Info().Str("component", "spec").Int("count", len(s.specs)).Msg("Loaded specs from disk")
	}
}
