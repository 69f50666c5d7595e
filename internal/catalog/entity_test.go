package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationEntityName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "key1",
			target: "https://myaccount.blob.core.windows.net/container-1/key1.yaml",
			want:   "generated-e01179791bf64315a47a010ba8cddb9d786cc92b",
		},
		{
			name:   "key2",
			target: "https://myaccount.blob.core.windows.net/container-1/key2.yaml",
			want:   "generated-d8bf1610fce8c26ef94314fac095ba76a725aa52",
		},
		{
			name:   "encoded key",
			target: "https://myaccount.blob.core.windows.net/container-1/sub/dir/my%20file.yaml",
			want:   "generated-fbbb9d0d762ce6d89649e31a4438ed4fa46f2c3f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LocationEntityName(LocationTypeURL, tt.target))
		})
	}
}

func TestNewLocationEntity(t *testing.T) {
	t.Parallel()

	target := "https://myaccount.blob.core.windows.net/container-1/key3.yaml"
	entity := NewLocationEntity(LocationTypeURL, target)

	assert.Equal(t, APIVersion, entity.APIVersion)
	assert.Equal(t, KindLocation, entity.Kind)
	assert.Equal(t, "generated-21ac28fa8b69008e79c8c1c622c0edb39aeec76b", entity.Metadata.Name)
	assert.Equal(t, "url:"+target, entity.Metadata.Annotations[AnnotationManagedByLocation])
	assert.Equal(t, "url:"+target, entity.Metadata.Annotations[AnnotationManagedByOriginLocation])
	assert.Equal(t, LocationSpec{Type: "url", Target: target, Presence: "required"}, entity.Spec)

	// Rebuilding yields an equal entity
	assert.Equal(t, entity, NewLocationEntity(LocationTypeURL, target))
}

func TestEntityJSONShape(t *testing.T) {
	t.Parallel()

	target := "https://myaccount.blob.core.windows.net/container-1/key4.yaml"
	data, err := json.Marshal(NewLocationEntity(LocationTypeURL, target))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"apiVersion": "backstage.io/v1alpha1",
		"kind": "Location",
		"metadata": {
			"name": "generated-f9dc9606bd5fbc2525ecd5d8264dee1105385e92",
			"annotations": {
				"backstage.io/managed-by-location": "url:`+target+`",
				"backstage.io/managed-by-origin-location": "url:`+target+`"
			}
		},
		"spec": {"type": "url", "target": "`+target+`", "presence": "required"}
	}`, string(data))
}
