// Package store provides the catalog stores entity providers submit mutations to:
// an in-memory store, a file store that persists one JSON document per provider,
// and a PostgreSQL store.
package store

import (
	"cmp"
	"slices"
	"time"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
)

// providerRows are the stored locations of one provider keyed by entity name
type providerRows map[string]catalog.StoredLocation

// applyMutation returns the rows of a provider after the mutation. existing is not modified.
func applyMutation(existing providerRows, mutation catalog.Mutation, now time.Time) providerRows {
	var next providerRows

	switch mutation.Type {
	case catalog.MutationTypeFull:
		next = make(providerRows, len(mutation.Entities))
		for _, e := range mutation.Entities {
			next[e.Entity.Metadata.Name] = storedFrom(existing, e, now)
		}
	case catalog.MutationTypeDelta:
		next = make(providerRows, len(existing)+len(mutation.Added))
		for name, row := range existing {
			next[name] = row
		}
		for _, e := range mutation.Removed {
			delete(next, e.Entity.Metadata.Name)
		}
		for _, e := range mutation.Added {
			next[e.Entity.Metadata.Name] = storedFrom(existing, e, now)
		}
	default:
		return existing
	}

	return next
}

// storedFrom keeps a pending refresh request across updates of the same entity
func storedFrom(existing providerRows, e catalog.DeferredEntity, now time.Time) catalog.StoredLocation {
	row := catalog.StoredLocation{DeferredEntity: e, UpdatedAt: now}
	if prev, ok := existing[e.Entity.Metadata.Name]; ok {
		row.RefreshRequestedAt = prev.RefreshRequestedAt
	}
	return row
}

// markRefresh sets RefreshRequestedAt on rows whose location reference is in keys.
// It reports whether any row changed.
func markRefresh(rows providerRows, keys map[string]struct{}, now time.Time) bool {
	changed := false
	for name, row := range rows {
		ref := catalog.LocationRef(row.Entity.Spec.Type, row.Entity.Spec.Target)
		if _, ok := keys[ref]; !ok {
			continue
		}
		at := now
		row.RefreshRequestedAt = &at
		rows[name] = row
		changed = true
	}
	return changed
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// collect flattens rows matching locationKey, ordered by location key then entity name
func collect(all map[string]providerRows, locationKey string) []catalog.StoredLocation {
	result := []catalog.StoredLocation{}
	for _, rows := range all {
		for _, row := range rows {
			if locationKey != "" && row.LocationKey != locationKey {
				continue
			}
			result = append(result, row)
		}
	}

	slices.SortFunc(result, func(a, b catalog.StoredLocation) int {
		return cmp.Or(
			cmp.Compare(a.LocationKey, b.LocationKey),
			cmp.Compare(a.Entity.Metadata.Name, b.Entity.Metadata.Name),
		)
	})
	return result
}
