package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/katalvlaran/lvroute/codec"
)

const jsonExt = ".json"

// JSONStore keeps one document file per graph name in a directory.
type JSONStore struct {
	dir    string
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewJSONStore creates dir if needed and returns a store rooted there.
func NewJSONStore(dir string, logger *slog.Logger) (*JSONStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: json: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &JSONStore{dir: dir, logger: componentLogger(logger, KindJSON)}
	s.logger.Info("using JSON data directory", slog.String("dir", dir))

	return s, nil
}

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.dir, name+jsonExt)
}

// Save writes doc to a temp file and renames it over the previous version.
func (s *JSONStore) Save(ctx context.Context, name string, doc *codec.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(name) + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	s.logger.Debug("graph saved", slog.String("name", name), slog.Int("nodes", len(doc.Nodes)))

	return nil
}

// Load reads the document saved under name.
func (s *JSONStore) Load(ctx context.Context, name string) (*codec.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path(name))
	s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc codec.Document
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	return &doc, nil
}

// List returns saved names in ascending order.
func (s *JSONStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries, err := os.ReadDir(s.dir)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), jsonExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), jsonExt)
		if ValidateName(name) == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes the document saved under name.
func (s *JSONStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return err
}

// Close is a no-op for the JSON store (data is written on every Save).
func (s *JSONStore) Close() error {
	return nil
}
