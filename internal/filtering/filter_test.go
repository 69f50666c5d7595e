package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://myaccount.blob.core.windows.net/container-1/"

func TestTargetFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		target        string
		include       []string
		exclude       []string
		expected      bool
		expectedInMsg string
	}{
		{
			name:          "no filters",
			target:        base + "key1.yaml",
			expected:      true,
			expectedInMsg: "no filters specified",
		},
		{
			name:          "include matches across slashes",
			target:        base + "sub/dir/key1.yaml",
			include:       []string{"*.yaml"},
			expected:      true,
			expectedInMsg: "included by pattern '*.yaml'",
		},
		{
			name:          "include without match",
			target:        base + "key1.json",
			include:       []string{"*.yaml", "*.yml"},
			expected:      false,
			expectedInMsg: "no match found in include patterns",
		},
		{
			name:          "exclude takes precedence",
			target:        base + "archive/key1.yaml",
			include:       []string{"*.yaml"},
			exclude:       []string{"*/archive/*"},
			expected:      false,
			expectedInMsg: "excluded by pattern '*/archive/*'",
		},
		{
			name:          "exclude only",
			target:        base + "key1.yaml",
			exclude:       []string{"*/archive/*"},
			expected:      true,
			expectedInMsg: "no match in exclude patterns",
		},
		{
			name:     "character class",
			target:   base + "key3.yaml",
			include:  []string{"*key[1-3].yaml"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter, err := NewTargetFilter(tt.include, tt.exclude)
			require.NoError(t, err)

			included, reason := filter.ShouldInclude(tt.target)
			assert.Equal(t, tt.expected, included)
			assert.Contains(t, reason, tt.expectedInMsg)
		})
	}
}

func TestNewTargetFilterInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewTargetFilter([]string{"[unclosed"}, nil)
	require.ErrorIs(t, err, ErrInvalidPattern)

	_, err = NewTargetFilter(nil, []string{"[z-a"})
	require.ErrorIs(t, err, ErrInvalidPattern)
}
