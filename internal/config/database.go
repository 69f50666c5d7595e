package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DatabasePasswordEnv is the environment variable consulted when no password file is configured
const DatabasePasswordEnv = "THV_CATALOG_DATABASE_PASSWORD"

// DatabaseConfig is the PostgreSQL connection used by the database store and state backends
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`

	// PasswordFile holds only the password; surrounding whitespace is trimmed
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// SSLMode is a libpq sslmode value and defaults to "require"
	SSLMode string `yaml:"sslMode,omitempty"`

	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is a Go duration string such as "30m"
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`

	// MigrationUser runs schema migrations and defaults to User
	MigrationUser string `yaml:"migrationUser,omitempty"`

	// DynamicAuth replaces static passwords with short-lived tokens
	DynamicAuth *DynamicAuthConfig `yaml:"dynamicAuth,omitempty"`
}

// DynamicAuthConfig selects a token based authentication method
type DynamicAuthConfig struct {
	AWSRDSIAM *DynamicAuthAWSRDSIAM `yaml:"awsRdsIam,omitempty"`
}

// DynamicAuthAWSRDSIAM configures AWS RDS IAM authentication
type DynamicAuthAWSRDSIAM struct {
	// Region is the AWS region of the database, or "detect" to read it from instance metadata
	Region string `yaml:"region"`
}

// GetMigrationUser returns the user that runs migrations
func (d *DatabaseConfig) GetMigrationUser() string {
	if d.MigrationUser != "" {
		return d.MigrationUser
	}
	return d.User
}

func (d *DatabaseConfig) sslMode() string {
	if d.SSLMode == "" {
		return "require"
	}
	return d.SSLMode
}

// BuildConnectionStringWithAuth builds a connection string for user. An empty password
// leaves it out, so libpq style fallbacks such as pgpass still apply.
func (d *DatabaseConfig) BuildConnectionStringWithAuth(user, password string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(user),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + url.QueryEscape(d.sslMode()),
	}
	if password != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}

// GetPassword reads PasswordFile when set and falls back to THV_CATALOG_DATABASE_PASSWORD
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile == "" {
		if password := os.Getenv(DatabasePasswordEnv); password != "" {
			return password, nil
		}
		return "", fmt.Errorf("no database password configured: set passwordFile or %s", DatabasePasswordEnv)
	}

	data, err := os.ReadFile(filepath.Clean(d.PasswordFile))
	if err != nil {
		return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// GetConnectionString builds the application connection string. With dynamic auth the
// password is left out and supplied per connection.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	if d.DynamicAuth != nil {
		return d.BuildConnectionStringWithAuth(d.User, ""), nil
	}
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}
	return d.BuildConnectionStringWithAuth(d.User, password), nil
}
