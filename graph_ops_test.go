package relato

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPersonFlattensProperties(t *testing.T) {
	store := newMemoryDriver()
	client := newTestClient(t, store, newMapEmbedder(4), nil, nil)

	person, err := client.AddPerson(context.Background(), "Alice", map[string]any{
		"address": map[string]any{"city": "Seattle", "zip": "98101"},
		"hobbies": []any{"tennis", "sailing"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Seattle", person.Properties["address_city"])
	assert.Equal(t, "98101", person.Properties["address_zip"])
	assert.Equal(t, "tennis, sailing", person.Properties["hobbies"])
}

func TestAddPersonMergesOnSameName(t *testing.T) {
	store := newMemoryDriver()
	client := newTestClient(t, store, newMapEmbedder(4), nil, nil)

	ctx := context.Background()
	_, err := client.AddPerson(ctx, "Alice", map[string]any{"city": "Seattle"})
	require.NoError(t, err)
	person, err := client.AddPerson(ctx, "Alice", map[string]any{"job": "engineer"})
	require.NoError(t, err)

	assert.Equal(t, "Seattle", person.Properties["city"])
	assert.Equal(t, "engineer", person.Properties["job"])
	assert.Len(t, store.people, 1)
}

func TestUpdatePersonPropertiesRequiresPerson(t *testing.T) {
	client := newTestClient(t, newMemoryDriver(), newMapEmbedder(4), nil, nil)

	_, err := client.UpdatePersonProperties(context.Background(), "Nobody", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestGetPersonNotFound(t *testing.T) {
	client := newTestClient(t, newMemoryDriver(), newMapEmbedder(4), nil, nil)

	_, err := client.GetPerson(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestDeletePersonRemovesFacts(t *testing.T) {
	store := newMemoryDriver()
	store.UpsertPerson(context.Background(), "Alice", nil)
	client := newTestClient(t, store, newMapEmbedder(4), nil, nil)

	ctx := context.Background()
	_, err := client.AddFact(ctx, "Alice", "likes coffee", "")
	require.NoError(t, err)

	require.NoError(t, client.DeletePerson(ctx, "Alice"))
	assert.Empty(t, store.facts)

	err = client.DeletePerson(ctx, "Alice")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestStats(t *testing.T) {
	store := newMemoryDriver()
	store.UpsertPerson(context.Background(), "Alice", nil)
	client := newTestClient(t, store, newMapEmbedder(4), nil, nil)

	ctx := context.Background()
	_, err := client.AddFact(ctx, "Alice", "Married to Bob Smith", "")
	require.NoError(t, err)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.People)
	assert.Equal(t, int64(1), stats.Facts)
	assert.Equal(t, int64(2), stats.Connections)
}
