package relato

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddedFixture(text, person string, embedding []float32) func(*memoryDriver) {
	return func(store *memoryDriver) {
		fact := factFixture(text, person, time.Now().UTC())
		fact.Embedding = embedding
		store.facts = append(store.facts, fact)
	}
}

func TestVectorSearchFactsEmptyCorpus(t *testing.T) {
	client := newTestClient(t, newMemoryDriver(), newMapEmbedder(2), nil, nil)

	_, err := client.VectorSearchFacts(context.Background(), "anything", 5, 0.2)
	assert.ErrorIs(t, err, ErrNoEmbeddedFacts)
}

func TestVectorSearchFactsRanks(t *testing.T) {
	store := newMemoryDriver()
	embeddedFixture("studies physics", "Alice", []float32{1, 0})(store)
	embeddedFixture("sells insurance", "Bob", []float32{0, 1})(store)
	emb := newMapEmbedder(2)
	emb.vectors["quantum"] = []float32{1, 0}
	client := newTestClient(t, store, emb, nil, nil)

	results, err := client.VectorSearchFacts(context.Background(), "quantum", 5, 0.2)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Alice", results[0].Fact.PersonName)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearchPeopleScoreFormula(t *testing.T) {
	store := newMemoryDriver()
	embeddedFixture("studies physics", "Alice", []float32{1, 0})(store)
	embeddedFixture("builds lasers", "Alice", []float32{1, 1})(store)
	embeddedFixture("sells insurance", "Bob", []float32{0.6, 0.8})(store)

	emb := newMapEmbedder(2)
	emb.vectors["quantum"] = []float32{1, 0}
	client := newTestClient(t, store, emb, nil, nil)

	matches, err := client.SearchPeople(context.Background(), "quantum", 5, 1)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Text search finds nothing, so each fact scores 0.7 * cosine.
	aliceBest := 0.7 * 1.0
	aliceSecond := 0.7 * (math.Sqrt2 / 2)
	aliceTotal := aliceBest + aliceSecond
	aliceExpected := 0.4*aliceBest + 0.3*(aliceTotal/2) + 0.2*(2.0/5.0) + 0.1*aliceTotal

	bobScore := 0.7 * 0.6
	bobExpected := 0.4*bobScore + 0.3*bobScore + 0.2*(1.0/5.0) + 0.1*bobScore

	assert.Equal(t, "Alice", matches[0].Name)
	assert.InDelta(t, aliceExpected, matches[0].Score, 1e-6)
	assert.Equal(t, 2, matches[0].FactCount)

	assert.Equal(t, "Bob", matches[1].Name)
	assert.InDelta(t, bobExpected, matches[1].Score, 1e-6)
}

func TestSearchPeopleMinFactMatches(t *testing.T) {
	store := newMemoryDriver()
	embeddedFixture("studies physics", "Alice", []float32{1, 0})(store)
	embeddedFixture("builds lasers", "Alice", []float32{1, 1})(store)
	embeddedFixture("sells insurance", "Bob", []float32{0.6, 0.8})(store)

	emb := newMapEmbedder(2)
	emb.vectors["quantum"] = []float32{1, 0}
	client := newTestClient(t, store, emb, nil, nil)

	matches, err := client.SearchPeople(context.Background(), "quantum", 5, 2)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "Alice", matches[0].Name)
}

func TestSearchPeopleCapsTopFacts(t *testing.T) {
	store := newMemoryDriver()
	for _, text := range []string{"fact one", "fact two", "fact three", "fact four"} {
		embeddedFixture(text, "Alice", []float32{1, 0})(store)
	}
	emb := newMapEmbedder(2)
	emb.vectors["quantum"] = []float32{1, 0}
	client := newTestClient(t, store, emb, nil, nil)

	matches, err := client.SearchPeople(context.Background(), "quantum", 5, 1)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].FactCount)
	assert.Len(t, matches[0].TopFacts, 3)
}

func TestSearchPeopleTextOnlyMatches(t *testing.T) {
	store := newMemoryDriver()
	store.facts = append(store.facts, factFixture("loves quantum computing", "Carol", time.Now().UTC()))

	emb := newMapEmbedder(2)
	emb.vectors["quantum"] = []float32{1, 0}
	client := newTestClient(t, store, emb, nil, nil)

	matches, err := client.SearchPeople(context.Background(), "quantum", 5, 1)
	require.NoError(t, err)

	// The fact has no embedding; only the fulltext hit contributes,
	// clamped to 1.0 before weighting.
	require.Len(t, matches, 1)
	assert.Equal(t, "Carol", matches[0].Name)
	factScore := 0.3 * 1.0
	expected := 0.4*factScore + 0.3*factScore + 0.2*(1.0/5.0) + 0.1*factScore
	assert.InDelta(t, expected, matches[0].Score, 1e-6)
}
