package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/status"
)

func fileConfig(path string) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			Storage: &config.StorageConfig{
				Type: config.StorageTypeFile,
				File: &config.FileStorageConfig{Path: path},
			},
		},
	}
}

func TestNewStorageFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *config.Config
		wantType any
		errMsg   string
	}{
		{
			name:   "nil config returns error",
			cfg:    nil,
			errMsg: "config cannot be nil",
		},
		{
			name:     "default is memory",
			cfg:      &config.Config{},
			wantType: &MemoryFactory{},
		},
		{
			name:     "file storage",
			cfg:      fileConfig(filepath.Join(t.TempDir(), "data")),
			wantType: &FileFactory{},
		},
		{
			name: "database storage without database settings",
			cfg: &config.Config{Catalog: config.CatalogConfig{
				Storage: &config.StorageConfig{Type: config.StorageTypeDatabase},
			}},
			errMsg: "database configuration is required",
		},
		{
			name: "unknown storage type",
			cfg: &config.Config{Catalog: config.CatalogConfig{
				Storage: &config.StorageConfig{Type: "etcd"},
			}},
			errMsg: "unknown storage type: etcd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			factory, err := NewStorageFactory(context.Background(), tt.cfg)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, factory)
			factory.Cleanup()
		})
	}
}

func TestMemoryFactory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	factory, err := NewMemoryFactory(&config.Config{})
	require.NoError(t, err)

	s, err := factory.CreateCatalogStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, s)

	stateService, err := factory.CreateStateService(ctx)
	require.NoError(t, err)
	assert.NotNil(t, stateService)

	locker, err := factory.CreateLocker(ctx)
	require.NoError(t, err)
	assert.Nil(t, locker)

	_, err = NewMemoryFactory(nil)
	require.Error(t, err)
}

func TestFileFactory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	baseDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	factory, err := NewFileFactory(fileConfig(baseDir))
	require.NoError(t, err)
	assert.NotNil(t, factory.statusPersistence)

	for _, dir := range []string{locationsDirName, statusDirName} {
		info, err := os.Stat(filepath.Join(baseDir, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	s, err := factory.CreateCatalogStore(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMutation(ctx, "azureBlobStorage-provider:test", catalog.Mutation{
		Type: catalog.MutationTypeFull,
		Entities: []catalog.DeferredEntity{{
			Entity:      catalog.NewLocationEntity(catalog.LocationTypeURL, "https://h/c/key1.yaml"),
			LocationKey: "azureBlobStorage-provider:test",
		}},
	}))

	stateService, err := factory.CreateStateService(ctx)
	require.NoError(t, err)
	require.NoError(t, stateService.Initialize(ctx, []string{"azureBlobStorage-provider:test:refresh"}))

	// Both families of files land under the configured path
	locations, err := filepath.Glob(filepath.Join(baseDir, locationsDirName, "*.json"))
	require.NoError(t, err)
	assert.Len(t, locations, 1)

	statuses, err := status.NewFileStatusPersistence(filepath.Join(baseDir, statusDirName)).LoadAllStatus(ctx)
	require.NoError(t, err)
	assert.Contains(t, statuses, "azureBlobStorage-provider:test:refresh")

	locker, err := factory.CreateLocker(ctx)
	require.NoError(t, err)
	assert.Nil(t, locker)
	factory.Cleanup()
}

func TestNewFileFactory_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewFileFactory(nil)
	require.ErrorContains(t, err, "config cannot be nil")

	_, err = NewFileFactory(&config.Config{})
	require.ErrorContains(t, err, "file storage path is required")

	// A regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	_, err = NewFileFactory(fileConfig(blocker))
	require.ErrorContains(t, err, "failed to create data directory")
}
