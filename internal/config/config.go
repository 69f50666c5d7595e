// Package config provides configuration loading and management for the catalog provider server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/toolhive-catalog-provider/internal/telemetry"
)

const (
	// EnvPrefix is the prefix used for environment variable overrides
	EnvPrefix = "THV_CATALOG"

	// DefaultAzureBlobHost is the blob service host used when none is configured
	DefaultAzureBlobHost = "blob.core.windows.net"

	// DefaultServerAddress is the HTTP listen address used when none is configured
	DefaultServerAddress = ":8080"
)

const (
	// StorageTypeMemory keeps catalog locations in process memory
	StorageTypeMemory = "memory"

	// StorageTypeFile persists catalog locations as JSON files
	StorageTypeFile = "file"

	// StorageTypeDatabase persists catalog locations in PostgreSQL
	StorageTypeDatabase = "database"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Integrations IntegrationsConfig         `yaml:"integrations,omitempty"`
	Schedules    map[string]*ScheduleConfig `yaml:"schedules,omitempty"`
	Catalog      CatalogConfig              `yaml:"catalog"`
	Database     *DatabaseConfig            `yaml:"database,omitempty"`
	Server       *ServerConfig              `yaml:"server,omitempty"`
	Telemetry    *telemetry.Config          `yaml:"telemetry,omitempty"`
	Auth         *AuthConfig                `yaml:"auth,omitempty"`
}

// IntegrationsConfig holds the shared connection settings for cloud storage services
type IntegrationsConfig struct {
	AzureBlobStorage []AzureBlobStorageIntegrationConfig `yaml:"azureBlobStorage,omitempty"`
	AwsS3            []AwsS3IntegrationConfig            `yaml:"awsS3,omitempty"`
}

// AzureBlobStorageIntegrationConfig describes how to reach and authenticate against a storage account.
// At most one of ConnectionString, AccountKey, SasToken and AADCredential should be set; when none is,
// the default Azure credential chain is used.
type AzureBlobStorageIntegrationConfig struct {
	AccountName string `yaml:"accountName"`

	// Host is the blob service host, defaults to blob.core.windows.net
	Host string `yaml:"host,omitempty"`

	// Endpoint overrides the service URL entirely (e.g. an Azurite emulator)
	Endpoint string `yaml:"endpoint,omitempty"`

	AccountKey       string               `yaml:"accountKey,omitempty"`
	SasToken         string               `yaml:"sasToken,omitempty"`
	ConnectionString string               `yaml:"connectionString,omitempty"`
	AADCredential    *AADCredentialConfig `yaml:"aadCredential,omitempty"`
}

// AADCredentialConfig holds a service principal client secret
type AADCredentialConfig struct {
	TenantID     string `yaml:"tenantId"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

// AwsS3IntegrationConfig describes how to reach and authenticate against S3 or an S3 compatible service
type AwsS3IntegrationConfig struct {
	// Host is matched against provider endpoints; defaults to amazonaws.com
	Host string `yaml:"host,omitempty"`

	// Endpoint is a custom service URL for S3 compatible stores
	Endpoint         string `yaml:"endpoint,omitempty"`
	Region           string `yaml:"region,omitempty"`
	AccessKeyID      string `yaml:"accessKeyId,omitempty"`
	SecretAccessKey  string `yaml:"secretAccessKey,omitempty"`
	S3ForcePathStyle bool   `yaml:"s3ForcePathStyle,omitempty"`
}

// CatalogConfig holds entity provider and storage settings
type CatalogConfig struct {
	Providers ProvidersConfig `yaml:"providers"`
	Storage   *StorageConfig  `yaml:"storage,omitempty"`
}

// ProvidersConfig maps provider families to their instances, keyed by instance id
type ProvidersConfig struct {
	AzureBlob map[string]*AzureBlobProviderConfig `yaml:"azureBlob,omitempty"`
	AwsS3     map[string]*AwsS3ProviderConfig     `yaml:"awsS3,omitempty"`
}

// AzureBlobProviderConfig configures one container to catalog mapping
type AzureBlobProviderConfig struct {
	ContainerName string `yaml:"containerName"`

	// AccountName selects the storage account. When empty, the integration matching Host is used.
	AccountName string `yaml:"accountName,omitempty"`
	Host        string `yaml:"host,omitempty"`
	Prefix      string `yaml:"prefix,omitempty"`

	Schedule    *ScheduleConfig `yaml:"schedule,omitempty"`
	ScheduleKey string          `yaml:"scheduleKey,omitempty"`
}

// AwsS3ProviderConfig configures one bucket to catalog mapping
type AwsS3ProviderConfig struct {
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region,omitempty"`
	Prefix     string `yaml:"prefix,omitempty"`

	// Endpoint selects a custom S3 compatible endpoint and its integration
	Endpoint string `yaml:"endpoint,omitempty"`

	Schedule    *ScheduleConfig `yaml:"schedule,omitempty"`
	ScheduleKey string          `yaml:"scheduleKey,omitempty"`
}

// StorageConfig selects where applied catalog mutations are kept
type StorageConfig struct {
	Type string             `yaml:"type"`
	File *FileStorageConfig `yaml:"file,omitempty"`
}

// FileStorageConfig configures the file-backed location store
type FileStorageConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`

	// RequestTimeout bounds handler time; the others map to http.Server fields
	RequestTimeout *Duration `yaml:"requestTimeout,omitempty"`
	ReadTimeout    *Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout   *Duration `yaml:"writeTimeout,omitempty"`
	IdleTimeout    *Duration `yaml:"idleTimeout,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// envReference matches ${NAME} in the raw configuration
var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces each ${NAME} with the value of the environment variable,
// or "" when it is unset, so credentials can stay out of the file
func expandEnvVars(data []byte) []byte {
	return envReference.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

// ParseConfig expands environment references in raw YAML, then parses and validates it
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(expandEnvVars(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetStorageType returns the configured storage type, defaulting to memory
func (c *Config) GetStorageType() string {
	if c.Catalog.Storage == nil || c.Catalog.Storage.Type == "" {
		return StorageTypeMemory
	}
	return c.Catalog.Storage.Type
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	if c.Server == nil || c.Server.Address == "" {
		return DefaultServerAddress
	}
	return c.Server.Address
}

// LookupSchedule returns the named schedule from the top-level schedules map
func (c *Config) LookupSchedule(key string) (*ScheduleConfig, bool) {
	if key == "" || c.Schedules == nil {
		return nil, false
	}
	sc, ok := c.Schedules[key]
	return sc, ok && sc != nil
}

// AzureBlobProviderIDs returns the configured Azure instance ids in sorted order
func (c *Config) AzureBlobProviderIDs() []string {
	return sortedKeys(c.Catalog.Providers.AzureBlob)
}

// AwsS3ProviderIDs returns the configured S3 instance ids in sorted order
func (c *Config) AwsS3ProviderIDs() []string {
	return sortedKeys(c.Catalog.Providers.AwsS3)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
