package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
)

const fileSuffix = ".json"

// providerDocument is the on-disk form of one provider's rows
type providerDocument struct {
	ProviderName string                   `json:"providerName"`
	Locations    []catalog.StoredLocation `json:"locations"`
}

// FileStore keeps rows in memory and writes each provider's rows to its own JSON file
// after every change. Files are replaced atomically.
type FileStore struct {
	basePath string

	mu         sync.RWMutex
	byProvider map[string]providerRows
	now        func() time.Time
}

var _ catalog.Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed and loads every provider document in it
func NewFileStore(basePath string) (*FileStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("file store path is required")
	}
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", basePath, err)
	}

	s := &FileStore{
		basePath:   basePath,
		byProvider: make(map[string]providerRows),
		now:        time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyMutation updates the provider's rows and persists them before returning
func (s *FileStore) ApplyMutation(ctx context.Context, providerName string, mutation catalog.Mutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := applyMutation(s.byProvider[providerName], mutation, s.now().UTC())
	if err := s.save(providerName, next); err != nil {
		return err
	}
	s.byProvider[providerName] = next

	slog.DebugContext(ctx, "Applied catalog mutation",
		"provider", providerName,
		"type", mutation.Type,
		"stored", len(next))
	return nil
}

// RequestRefresh marks matching rows and persists the providers that changed. A provider's
// rows only change in memory once its document is saved.
func (s *FileStore) RequestRefresh(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := keySet(keys)
	now := s.now().UTC()
	for providerName, rows := range s.byProvider {
		next := maps.Clone(rows)
		if !markRefresh(next, set, now) {
			continue
		}
		if err := s.save(providerName, next); err != nil {
			return err
		}
		s.byProvider[providerName] = next
	}
	return nil
}

// ListLocations returns stored rows ordered by location key and entity name
func (s *FileStore) ListLocations(_ context.Context, locationKey string) ([]catalog.StoredLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return collect(s.byProvider, locationKey), nil
}

// documentPath encodes the provider name so that any name maps to a single safe file name
func (s *FileStore) documentPath(providerName string) string {
	return filepath.Join(s.basePath, base64.RawURLEncoding.EncodeToString([]byte(providerName))+fileSuffix)
}

func (s *FileStore) save(providerName string, rows providerRows) error {
	doc := providerDocument{
		ProviderName: providerName,
		Locations:    collect(map[string]providerRows{providerName: rows}, ""),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal locations for provider '%s': %w", providerName, err)
	}

	filePath := s.documentPath(providerName)
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary locations file for provider '%s': %w", providerName, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename locations file for provider '%s': %w", providerName, err)
	}

	return nil
}

func (s *FileStore) load() error {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return fmt.Errorf("failed to read store directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}

		path := filepath.Join(s.basePath, entry.Name())
		// #nosec G304 -- path is a file inside the configured store directory
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read locations file %s: %w", path, err)
		}

		var doc providerDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			slog.Warn("Skipping unreadable locations file", "path", path, "error", err)
			continue
		}

		rows := make(providerRows, len(doc.Locations))
		for _, loc := range doc.Locations {
			rows[loc.Entity.Metadata.Name] = loc
		}
		s.byProvider[doc.ProviderName] = rows
	}

	return nil
}
