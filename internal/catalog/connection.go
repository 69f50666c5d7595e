package catalog

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination=mocks/mock_connection.go -package=mocks -source=connection.go Connection,EntityProvider,Store

// MutationType selects how a mutation is applied
type MutationType string

const (
	// MutationTypeFull replaces every entity previously emitted under the same location key
	MutationTypeFull MutationType = "full"

	// MutationTypeDelta adds and removes the listed entities only
	MutationTypeDelta MutationType = "delta"
)

// DeferredEntity is an entity together with the key of the provider that owns it
type DeferredEntity struct {
	Entity      Entity `json:"entity"`
	LocationKey string `json:"locationKey,omitempty"`
}

// Mutation is a batch of entity changes submitted by a provider
type Mutation struct {
	Type MutationType `json:"type"`

	// Entities is the complete set for a full mutation, in emission order
	Entities []DeferredEntity `json:"entities,omitempty"`

	// Added and Removed are used by delta mutations
	Added   []DeferredEntity `json:"added,omitempty"`
	Removed []DeferredEntity `json:"removed,omitempty"`
}

// RefreshOptions asks the catalog to re-process entities by their reference keys
type RefreshOptions struct {
	Keys []string `json:"keys"`
}

// Connection is the sink an entity provider submits mutations to
type Connection interface {
	// ApplyMutation applies a batch of entity changes
	ApplyMutation(ctx context.Context, mutation Mutation) error

	// Refresh schedules the given keys for re-processing
	Refresh(ctx context.Context, options RefreshOptions) error
}

// EntityProvider is a source of entities that is handed a connection once at startup
type EntityProvider interface {
	// GetProviderName returns the unique name of the provider, also used as its location key
	GetProviderName() string

	// Connect hands the provider its connection and lets it register any recurring work
	Connect(ctx context.Context, conn Connection) error
}

// StoredLocation is a deferred entity as persisted by a store
type StoredLocation struct {
	DeferredEntity
	UpdatedAt          time.Time  `json:"updatedAt"`
	RefreshRequestedAt *time.Time `json:"refreshRequestedAt,omitempty"`
}

// Reader exposes stored locations
type Reader interface {
	// ListLocations returns stored entities ordered by location key and entity name.
	// An empty locationKey returns all of them.
	ListLocations(ctx context.Context, locationKey string) ([]StoredLocation, error)
}

// Store persists the entities providers emit. Entities are owned by the provider that
// submitted them, so a full mutation only replaces what that provider stored before.
type Store interface {
	Reader

	// ApplyMutation applies a mutation on behalf of the named provider
	ApplyMutation(ctx context.Context, providerName string, mutation Mutation) error

	// RequestRefresh marks every stored entity whose location reference is in keys
	RequestRefresh(ctx context.Context, keys []string) error
}

// providerConnection binds a store to a single provider
type providerConnection struct {
	store        Store
	providerName string
}

var _ Connection = (*providerConnection)(nil)

// NewConnection returns the connection handed to a provider on Connect
func NewConnection(store Store, providerName string) Connection {
	return &providerConnection{store: store, providerName: providerName}
}

// ApplyMutation validates the mutation and forwards it to the store
func (c *providerConnection) ApplyMutation(ctx context.Context, mutation Mutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}
	return c.store.ApplyMutation(ctx, c.providerName, mutation)
}

// Refresh forwards refresh requests to the store
func (c *providerConnection) Refresh(ctx context.Context, options RefreshOptions) error {
	if len(options.Keys) == 0 {
		return nil
	}
	return c.store.RequestRefresh(ctx, options.Keys)
}

// Validate checks the mutation type and that every entity has a name
func (m Mutation) Validate() error {
	switch m.Type {
	case MutationTypeFull:
		if len(m.Added) > 0 || len(m.Removed) > 0 {
			return fmt.Errorf("full mutation must not carry added or removed entities")
		}
		return validateEntities(m.Entities)
	case MutationTypeDelta:
		if len(m.Entities) > 0 {
			return fmt.Errorf("delta mutation must use added and removed instead of entities")
		}
		if err := validateEntities(m.Added); err != nil {
			return err
		}
		return validateEntities(m.Removed)
	default:
		return fmt.Errorf("unknown mutation type %q", m.Type)
	}
}

func validateEntities(entities []DeferredEntity) error {
	for i, e := range entities {
		if e.Entity.Metadata.Name == "" {
			return fmt.Errorf("entity %d has no name", i)
		}
	}
	return nil
}
