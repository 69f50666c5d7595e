// Package providers holds what the blob catalog entity providers share: naming,
// schedule resolution and the mapping of object keys to Location entities.
package providers

import (
	"context"
	"fmt"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/sources"
)

// refreshTaskSuffix is appended to a provider name to form its task id
const refreshTaskSuffix = ":refresh"

// ProviderName returns "<kind>-provider:<id>"
func ProviderName(kind, id string) string {
	return fmt.Sprintf("%s-provider:%s", kind, id)
}

// TaskID returns the scheduler task id for a provider
func TaskID(providerName string) string {
	return providerName + refreshTaskSuffix
}

// LocationEntities maps object keys to Location entities owned by locationKey. The target of
// each entity is the URI-encoded concatenation of baseURL and the key, in key order.
func LocationEntities(baseURL string, keys []string, locationKey string) []catalog.DeferredEntity {
	entities := make([]catalog.DeferredEntity, 0, len(keys))
	for _, key := range keys {
		target := EncodeURI(baseURL + key)
		entities = append(entities, catalog.DeferredEntity{
			Entity:      catalog.NewLocationEntity(catalog.LocationTypeURL, target),
			LocationKey: locationKey,
		})
	}
	return entities
}

// ListLocationEntities lists every key under prefix and maps the result with LocationEntities
func ListLocationEntities(
	ctx context.Context,
	lister sources.ObjectLister,
	prefix, baseURL, locationKey string,
) ([]catalog.DeferredEntity, error) {
	keys, err := sources.Collect(ctx, lister, prefix)
	if err != nil {
		return nil, err
	}
	return LocationEntities(baseURL, keys, locationKey), nil
}
