package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	"github.com/stacklok/toolhive-catalog-provider/internal/state"
)

// pinger is implemented by stores backed by a remote database
type pinger interface {
	Ping(ctx context.Context) error
}

// Service is the default CatalogService on a store, a scheduler and a task state service
type Service struct {
	reader       catalog.Reader
	scheduler    scheduler.Scheduler
	stateService state.TaskStateService
	providers    []ProviderDescriptor

	connected atomic.Bool
}

var _ CatalogService = (*Service)(nil)

// New creates a catalog service. Providers are sorted by name.
func New(
	reader catalog.Reader,
	sched scheduler.Scheduler,
	stateService state.TaskStateService,
	providers []ProviderDescriptor,
) (*Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	if sched == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if stateService == nil {
		return nil, fmt.Errorf("state service is required")
	}

	sorted := slices.Clone(providers)
	slices.SortFunc(sorted, func(a, b ProviderDescriptor) int {
		return strings.Compare(a.Name, b.Name)
	})

	return &Service{
		reader:       reader,
		scheduler:    sched,
		stateService: stateService,
		providers:    sorted,
	}, nil
}

// MarkConnected reports that every provider has been connected to the store
func (s *Service) MarkConnected() {
	s.connected.Store(true)
}

func (s *Service) CheckReadiness(ctx context.Context) error {
	if !s.connected.Load() {
		return ErrNotReady
	}
	if p, ok := s.reader.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("store is not reachable: %w", err)
		}
	}
	return nil
}

func (s *Service) ListLocations(
	ctx context.Context,
	opts ...Option[ListLocationsOptions],
) ([]catalog.StoredLocation, error) {
	options := &ListLocationsOptions{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	locations, err := s.reader.ListLocations(ctx, options.LocationKey)
	if err != nil || options.Filter == nil {
		return locations, err
	}

	filtered := make([]catalog.StoredLocation, 0, len(locations))
	for _, loc := range locations {
		if ok, _ := options.Filter.ShouldInclude(loc.Entity.Spec.Target); ok {
			filtered = append(filtered, loc)
		}
	}
	return filtered, nil
}

func (s *Service) ListProviders(ctx context.Context) ([]ProviderInfo, error) {
	statuses, err := s.stateService.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task statuses: %w", err)
	}

	tasks := make(map[string]scheduler.TaskInfo)
	for _, task := range s.scheduler.ListTasks() {
		tasks[task.ID] = task
	}

	result := make([]ProviderInfo, 0, len(s.providers))
	for _, p := range s.providers {
		info := ProviderInfo{
			Name:   p.Name,
			Kind:   p.Kind,
			TaskID: p.TaskID,
			Status: statuses[p.TaskID],
		}
		if task, ok := tasks[p.TaskID]; ok {
			info.Task = &task
		}
		result = append(result, info)
	}
	return result, nil
}

func (s *Service) RefreshProvider(ctx context.Context, name string) error {
	idx := slices.IndexFunc(s.providers, func(p ProviderDescriptor) bool { return p.Name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	taskID := s.providers[idx].TaskID
	if err := s.scheduler.TriggerTask(ctx, taskID); err != nil {
		if errors.Is(err, scheduler.ErrTaskNotFound) {
			return fmt.Errorf("%w: %s", ErrProviderNotFound, name)
		}
		return err
	}

	slog.InfoContext(ctx, "Triggered provider refresh", "provider", name, "task", taskID)
	return nil
}
