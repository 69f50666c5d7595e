// Package catalog defines the catalog entity model and the contracts between
// entity providers and the catalog that stores what they emit.
package catalog

import (
	"crypto/sha1" //nolint:gosec // entity names are content addresses, not a security boundary
	"encoding/hex"
	"fmt"
)

const (
	// APIVersion is the entity envelope version for every emitted entity
	APIVersion = "backstage.io/v1alpha1"

	// KindLocation is the entity kind that points the catalog at a descriptor file
	KindLocation = "Location"

	// LocationTypeURL is the location type for descriptors fetched over HTTP(S)
	LocationTypeURL = "url"

	// PresenceRequired marks a location target that must exist
	PresenceRequired = "required"

	// AnnotationManagedByLocation records the location that manages an entity
	AnnotationManagedByLocation = "backstage.io/managed-by-location"

	// AnnotationManagedByOriginLocation records the location that first introduced an entity
	AnnotationManagedByOriginLocation = "backstage.io/managed-by-origin-location"

	generatedNamePrefix = "generated-"
)

// Entity is a catalog entity envelope. This service only emits Location entities.
type Entity struct {
	APIVersion string         `json:"apiVersion"`
	Kind       string         `json:"kind"`
	Metadata   EntityMetadata `json:"metadata"`
	Spec       LocationSpec   `json:"spec"`
}

// EntityMetadata carries the entity name and annotations
type EntityMetadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// LocationSpec is the spec of a Location entity
type LocationSpec struct {
	Type     string `json:"type"`
	Target   string `json:"target"`
	Presence string `json:"presence,omitempty"`
}

// LocationRef renders a location type and target as "<type>:<target>"
func LocationRef(locationType, target string) string {
	return fmt.Sprintf("%s:%s", locationType, target)
}

// LocationEntityName returns the deterministic name of the Location entity for a type and target:
// "generated-" followed by the hex SHA-1 digest of "<type>:<target>".
func LocationEntityName(locationType, target string) string {
	sum := sha1.Sum([]byte(LocationRef(locationType, target))) //nolint:gosec // see import
	return generatedNamePrefix + hex.EncodeToString(sum[:])
}

// NewLocationEntity builds the Location entity that points the catalog at target.
// The result depends only on its inputs, so repeated refreshes produce identical entities.
func NewLocationEntity(locationType, target string) Entity {
	ref := LocationRef(locationType, target)
	return Entity{
		APIVersion: APIVersion,
		Kind:       KindLocation,
		Metadata: EntityMetadata{
			Name: LocationEntityName(locationType, target),
			Annotations: map[string]string{
				AnnotationManagedByLocation:       ref,
				AnnotationManagedByOriginLocation: ref,
			},
		},
		Spec: LocationSpec{
			Type:     locationType,
			Target:   target,
			Presence: PresenceRequired,
		},
	}
}
