package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/otel"
)

const (
	deleteStaleSQL = `DELETE FROM catalog_locations
WHERE provider_name = $1 AND NOT (entity_name = ANY($2::text[]))`

	deleteNamedSQL = `DELETE FROM catalog_locations
WHERE provider_name = $1 AND entity_name = ANY($2::text[])`

	upsertSQL = `INSERT INTO catalog_locations
  (provider_name, entity_name, location_key, location_ref, entity, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (provider_name, entity_name) DO UPDATE SET
  location_key = EXCLUDED.location_key,
  location_ref = EXCLUDED.location_ref,
  entity = EXCLUDED.entity,
  updated_at = EXCLUDED.updated_at`

	requestRefreshSQL = `UPDATE catalog_locations SET refresh_requested_at = $2
WHERE location_ref = ANY($1::text[])`
)

var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// listQuery selects rows for one location key, or all rows when it is empty
func listQuery(locationKey string) (string, []any, error) {
	qb := psq.Select("location_key", "entity", "updated_at", "refresh_requested_at").
		From("catalog_locations").
		OrderBy("location_key", "entity_name")
	if locationKey != "" {
		qb = qb.Where(sq.Eq{"location_key": locationKey})
	}
	return qb.ToSql()
}

// PostgresStore persists rows in the catalog_locations table. Each mutation runs in
// its own transaction.
type PostgresStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	now    func() time.Time
}

var _ catalog.Store = (*PostgresStore)(nil)

// PostgresOption configures a PostgresStore
type PostgresOption func(*PostgresStore)

// WithTracer sets the tracer used for store spans
func WithTracer(tracer trace.Tracer) PostgresOption {
	return func(s *PostgresStore) {
		s.tracer = tracer
	}
}

// NewPostgresStore creates a store on an existing pool. The caller owns the pool.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}

	s := &PostgresStore{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ApplyMutation replaces or patches the rows owned by providerName in one transaction
func (s *PostgresStore) ApplyMutation(ctx context.Context, providerName string, mutation catalog.Mutation) error {
	ctx, span := otel.StartSpan(ctx, s.tracer, "PostgresStore.ApplyMutation",
		trace.WithAttributes(
			otel.AttrProviderName.String(providerName),
			otel.AttrMutationType.String(string(mutation.Type)),
		))
	defer span.End()

	if err := mutation.Validate(); err != nil {
		otel.RecordError(span, err)
		return err
	}

	now := s.now().UTC()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		switch mutation.Type {
		case catalog.MutationTypeFull:
			if _, err := tx.Exec(ctx, deleteStaleSQL, providerName, entityNames(mutation.Entities)); err != nil {
				return fmt.Errorf("failed to delete stale locations: %w", err)
			}
			return upsertAll(ctx, tx, providerName, mutation.Entities, now)

		case catalog.MutationTypeDelta:
			if len(mutation.Removed) > 0 {
				if _, err := tx.Exec(ctx, deleteNamedSQL, providerName, entityNames(mutation.Removed)); err != nil {
					return fmt.Errorf("failed to delete removed locations: %w", err)
				}
			}
			return upsertAll(ctx, tx, providerName, mutation.Added, now)
		}
		return nil
	})
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to apply %s mutation for %s: %w", mutation.Type, providerName, err)
	}

	slog.DebugContext(ctx, "Applied catalog mutation", "provider", providerName, "type", mutation.Type)
	return nil
}

// RequestRefresh marks rows whose location reference is in keys
func (s *PostgresStore) RequestRefresh(ctx context.Context, keys []string) error {
	ctx, span := otel.StartSpan(ctx, s.tracer, "PostgresStore.RequestRefresh")
	defer span.End()

	if _, err := s.pool.Exec(ctx, requestRefreshSQL, keys, s.now().UTC()); err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to request refresh: %w", err)
	}
	return nil
}

// ListLocations returns stored rows ordered by location key and entity name
func (s *PostgresStore) ListLocations(ctx context.Context, locationKey string) ([]catalog.StoredLocation, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "PostgresStore.ListLocations",
		trace.WithAttributes(otel.AttrLocationKey.String(locationKey)))
	defer span.End()

	query, args, err := listQuery(locationKey)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.StoredLocation, error) {
		var (
			loc       catalog.StoredLocation
			entityRaw []byte
		)
		if err := row.Scan(&loc.LocationKey, &entityRaw, &loc.UpdatedAt, &loc.RefreshRequestedAt); err != nil {
			return loc, err
		}
		if err := json.Unmarshal(entityRaw, &loc.Entity); err != nil {
			return loc, fmt.Errorf("failed to decode stored entity: %w", err)
		}
		return loc, nil
	})
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(result)))
	return result, nil
}

// Ping checks the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func upsertAll(ctx context.Context, tx pgx.Tx, providerName string, entities []catalog.DeferredEntity, now time.Time) error {
	if len(entities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entities {
		data, err := json.Marshal(e.Entity)
		if err != nil {
			return fmt.Errorf("failed to encode entity %s: %w", e.Entity.Metadata.Name, err)
		}
		batch.Queue(upsertSQL,
			providerName,
			e.Entity.Metadata.Name,
			e.LocationKey,
			catalog.LocationRef(e.Entity.Spec.Type, e.Entity.Spec.Target),
			data,
			now,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert locations: %w", err)
	}
	return nil
}

func entityNames(entities []catalog.DeferredEntity) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Entity.Metadata.Name)
	}
	return names
}
