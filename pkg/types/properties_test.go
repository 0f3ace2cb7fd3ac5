package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenProperties(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			name:     "primitives pass through",
			input:    map[string]any{"job": "engineer", "age": 34, "active": true},
			expected: map[string]any{"job": "engineer", "age": 34, "active": true},
		},
		{
			name: "nested maps are prefixed",
			input: map[string]any{
				"address": map[string]any{"city": "Seattle", "zip": "98101"},
			},
			expected: map[string]any{"address_city": "Seattle", "address_zip": "98101"},
		},
		{
			name: "deeply nested maps",
			input: map[string]any{
				"work": map[string]any{
					"office": map[string]any{"floor": 4},
				},
			},
			expected: map[string]any{"work_office_floor": 4},
		},
		{
			name:     "primitive lists join with commas",
			input:    map[string]any{"hobbies": []any{"golf", "chess"}},
			expected: map[string]any{"hobbies": "golf, chess"},
		},
		{
			name:     "complex lists are JSON encoded",
			input:    map[string]any{"pets": []any{map[string]any{"name": "Rex"}}},
			expected: map[string]any{"pets": `[{"name":"Rex"}]`},
		},
		{
			name:     "nil becomes empty string",
			input:    map[string]any{"nickname": nil},
			expected: map[string]any{"nickname": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlattenProperties(tt.input))
		})
	}
}

func TestFactHasEmbedding(t *testing.T) {
	fact := &Fact{ID: "f1", Text: "likes sailing"}
	assert.False(t, fact.HasEmbedding())

	// A zero vector is the embedding-failure placeholder.
	fact.Embedding = []float32{0, 0}
	assert.False(t, fact.HasEmbedding())

	fact.Embedding = []float32{0.1, 0.2}
	assert.True(t, fact.HasEmbedding())
}
