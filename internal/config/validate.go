package config

import (
	"errors"
	"fmt"
)

// Validate performs validation on the configuration.
// Provider instances are only checked for shape here; credential and schedule
// resolution happen when providers are built, so a partially configured
// instance fails at startup with a provider specific message.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	for i, integ := range c.Integrations.AzureBlobStorage {
		if integ.AccountName == "" && integ.ConnectionString == "" {
			errs = append(errs, fmt.Errorf("integrations.azureBlobStorage[%d]: accountName is required", i))
		}
		if aad := integ.AADCredential; aad != nil {
			if aad.TenantID == "" || aad.ClientID == "" || aad.ClientSecret == "" {
				errs = append(errs, fmt.Errorf(
					"integrations.azureBlobStorage[%d]: aadCredential requires tenantId, clientId and clientSecret", i))
			}
		}
	}

	for i, integ := range c.Integrations.AwsS3 {
		if (integ.AccessKeyID == "") != (integ.SecretAccessKey == "") {
			errs = append(errs, fmt.Errorf(
				"integrations.awsS3[%d]: accessKeyId and secretAccessKey must be set together", i))
		}
	}

	for key, sc := range c.Schedules {
		if err := sc.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("schedules.%s: %w", key, err))
		}
	}

	for _, id := range c.AzureBlobProviderIDs() {
		p := c.Catalog.Providers.AzureBlob[id]
		prefix := fmt.Sprintf("catalog.providers.azureBlob.%s", id)
		if p == nil {
			errs = append(errs, fmt.Errorf("%s: configuration is empty", prefix))
			continue
		}
		if p.ContainerName == "" {
			errs = append(errs, fmt.Errorf("%s: containerName is required", prefix))
		}
		errs = append(errs, c.validateProviderSchedule(prefix, p.Schedule, p.ScheduleKey)...)
	}

	for _, id := range c.AwsS3ProviderIDs() {
		p := c.Catalog.Providers.AwsS3[id]
		prefix := fmt.Sprintf("catalog.providers.awsS3.%s", id)
		if p == nil {
			errs = append(errs, fmt.Errorf("%s: configuration is empty", prefix))
			continue
		}
		if p.BucketName == "" {
			errs = append(errs, fmt.Errorf("%s: bucketName is required", prefix))
		}
		errs = append(errs, c.validateProviderSchedule(prefix, p.Schedule, p.ScheduleKey)...)
	}

	if err := c.validateStorage(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) validateProviderSchedule(prefix string, schedule *ScheduleConfig, key string) []error {
	var errs []error
	if schedule != nil && key != "" {
		errs = append(errs, fmt.Errorf("%s: only one of schedule or scheduleKey may be specified", prefix))
	}
	if schedule != nil {
		if err := schedule.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s.schedule: %w", prefix, err))
		}
	}
	if key != "" {
		if _, ok := c.LookupSchedule(key); !ok {
			errs = append(errs, fmt.Errorf("%s: scheduleKey %q does not reference a configured schedule", prefix, key))
		}
	}
	return errs
}

func (c *Config) validateStorage() error {
	switch c.GetStorageType() {
	case StorageTypeMemory:
		return nil
	case StorageTypeFile:
		if c.Catalog.Storage.File == nil || c.Catalog.Storage.File.Path == "" {
			return fmt.Errorf("catalog.storage.file.path is required when storage type is %s", StorageTypeFile)
		}
		return nil
	case StorageTypeDatabase:
		if c.Database == nil {
			return fmt.Errorf("database configuration is required when storage type is %s", StorageTypeDatabase)
		}
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("database.host and database.database are required")
		}
		return nil
	default:
		return fmt.Errorf("catalog.storage.type must be one of %s, %s or %s, got %s",
			StorageTypeMemory, StorageTypeFile, StorageTypeDatabase, c.Catalog.Storage.Type)
	}
}

// Validate checks a schedule for a usable frequency and timeout
func (s *ScheduleConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("schedule is empty")
	}
	if s.Frequency == nil {
		return fmt.Errorf("frequency is required")
	}
	f := s.Frequency
	switch {
	case f.Trigger != "" && f.Trigger != FrequencyTriggerManual:
		return fmt.Errorf("frequency.trigger must be %q, got %q", FrequencyTriggerManual, f.Trigger)
	case f.Trigger == "" && f.Cron == "" && f.Interval <= 0:
		return fmt.Errorf("frequency must be a positive duration, a cron expression or a manual trigger")
	}
	if s.Timeout == nil || s.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	if s.InitialDelay != nil && s.InitialDelay.Duration < 0 {
		return fmt.Errorf("initialDelay must not be negative")
	}
	switch s.Scope {
	case "", ScheduleScopeGlobal, ScheduleScopeLocal:
	default:
		return fmt.Errorf("scope must be %q or %q, got %q", ScheduleScopeGlobal, ScheduleScopeLocal, s.Scope)
	}
	return nil
}

const (
	// ScheduleScopeGlobal runs a task once across all replicas sharing a database
	ScheduleScopeGlobal = "global"

	// ScheduleScopeLocal runs a task in every replica
	ScheduleScopeLocal = "local"
)
