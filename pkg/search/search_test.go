package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for exercising the searcher without a
// database.
type fakeStore struct {
	embedded     []*types.Fact
	fulltextHits []*types.ScoredFact
	fulltextErr  error
	scanHits     []*types.Fact
	scanErr      error
}

func (f *fakeStore) CreateFact(ctx context.Context, fact *types.Fact) error { return nil }

func (f *fakeStore) ListFacts(ctx context.Context, personName string) ([]*types.Fact, error) {
	return nil, nil
}

func (f *fakeStore) GetFactsByCategory(ctx context.Context, personName, category string) ([]*types.Fact, error) {
	return nil, nil
}

func (f *fakeStore) FactsWithEmbeddings(ctx context.Context) ([]*types.Fact, error) {
	return f.embedded, nil
}

func (f *fakeStore) FactsMissingEmbeddings(ctx context.Context) ([]*types.Fact, error) {
	return nil, nil
}

func (f *fakeStore) SetFactEmbedding(ctx context.Context, factID string, embedding []float32) error {
	return nil
}

func (f *fakeStore) SetFactCategory(ctx context.Context, factID, category string) error {
	return nil
}

func (f *fakeStore) DeleteFact(ctx context.Context, factID string) error { return nil }

func (f *fakeStore) DeleteAllFacts(ctx context.Context, personName string) (int64, error) {
	return 0, nil
}

func (f *fakeStore) RecentMatchingFacts(ctx context.Context, text, category string, since time.Time, excludePerson string) ([]*types.Fact, error) {
	return nil, nil
}

func (f *fakeStore) FulltextSearchFacts(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error) {
	if f.fulltextErr != nil {
		return nil, f.fulltextErr
	}
	return f.fulltextHits, nil
}

func (f *fakeStore) ScanFacts(ctx context.Context, substring, personFilter string) ([]*types.Fact, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.scanHits, nil
}

// fixedEmbedder returns the same vector for every input.
type fixedEmbedder struct {
	vector []float32
}

func (e *fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector
	}
	return out, nil
}

func (e *fixedEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return e.vector, nil
}

func (e *fixedEmbedder) Dimensions() int { return len(e.vector) }

func (e *fixedEmbedder) Close() error { return nil }

func embeddedFact(id, text string, embedding []float32) *types.Fact {
	return &types.Fact{
		ID:        id,
		Text:      text,
		Embedding: embedding,
	}
}

func TestVectorSearchRanksBySimilarity(t *testing.T) {
	store := &fakeStore{
		embedded: []*types.Fact{
			embeddedFact("f-orthogonal", "likes hiking", []float32{0, 1}),
			embeddedFact("f-exact", "works at Acme", []float32{1, 0}),
			embeddedFact("f-partial", "joined Acme last year", []float32{1, 1}),
		},
	}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	result, err := searcher.VectorSearch(context.Background(), "Acme", 10, 0.2)
	require.NoError(t, err)

	require.Len(t, result.Facts, 2)
	assert.Equal(t, "f-exact", result.Facts[0].Fact.ID)
	assert.Equal(t, "f-partial", result.Facts[1].Fact.ID)
	assert.InDelta(t, 1.0, result.Facts[0].Score, 1e-9)
	assert.InDelta(t, 0.70710678, result.Facts[1].Score, 1e-6)
	assert.Equal(t, 3, result.TotalSearched)
	assert.Equal(t, 2, result.AboveThreshold)
}

func TestVectorSearchTruncatesToTopK(t *testing.T) {
	store := &fakeStore{
		embedded: []*types.Fact{
			embeddedFact("f1", "a", []float32{1, 0}),
			embeddedFact("f2", "b", []float32{1, 0.1}),
			embeddedFact("f3", "c", []float32{1, 0.2}),
		},
	}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	result, err := searcher.VectorSearch(context.Background(), "a", 2, 0.2)
	require.NoError(t, err)

	assert.Len(t, result.Facts, 2)
	assert.Equal(t, 3, result.AboveThreshold)
	assert.Equal(t, "f1", result.Facts[0].Fact.ID)
}

func TestVectorSearchEmptyCorpus(t *testing.T) {
	searcher := NewSearcher(&fakeStore{}, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	result, err := searcher.VectorSearch(context.Background(), "anything", 10, 0.2)
	require.NoError(t, err)

	assert.Empty(t, result.Facts)
	assert.NotEmpty(t, result.Message)
	assert.Zero(t, result.TotalSearched)
}

func TestTextSearchUsesFulltextIndex(t *testing.T) {
	store := &fakeStore{
		fulltextHits: []*types.ScoredFact{
			{Fact: embeddedFact("f1", "works at Acme", nil), Score: 2.4, TextScore: 2.4},
		},
	}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	results, err := searcher.TextSearch(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.InDelta(t, 2.4, results[0].Score, 1e-9)
}

func TestTextSearchFallsBackToScan(t *testing.T) {
	store := &fakeStore{
		fulltextErr: driver.ErrIndexUnavailable,
		scanHits: []*types.Fact{
			embeddedFact("f1", "works at Acme", nil),
			embeddedFact("f2", "Acme hired her in March", nil),
		},
	}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	results, err := searcher.TextSearch(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, sf := range results {
		assert.InDelta(t, FallbackTextScore, sf.Score, 1e-9)
		assert.InDelta(t, FallbackTextScore, sf.TextScore, 1e-9)
	}
}

func TestTextSearchPropagatesOtherErrors(t *testing.T) {
	store := &fakeStore{fulltextErr: errors.New("connection reset")}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	_, err := searcher.TextSearch(context.Background(), "Acme", "", 10)
	assert.Error(t, err)
}

func TestHybridSearchFusesScores(t *testing.T) {
	store := &fakeStore{
		embedded: []*types.Fact{
			embeddedFact("f-both", "works at Acme", []float32{1, 0}),
			embeddedFact("f-vector", "joined Acme", []float32{1, 1}),
		},
		fulltextHits: []*types.ScoredFact{
			{Fact: embeddedFact("f-both", "works at Acme", nil), Score: 2.5, TextScore: 2.5},
			{Fact: embeddedFact("f-text", "Acme is downtown", nil), Score: 0.5, TextScore: 0.5},
		},
	}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	results, err := searcher.HybridSearch(context.Background(), "Acme", HybridOptions{
		TopK:         10,
		VectorWeight: 0.7,
		TextWeight:   0.3,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]*types.ScoredFact)
	for _, sf := range results {
		byID[sf.Fact.ID] = sf
	}

	// Text score 2.5 clamps to 1.0 before weighting.
	assert.InDelta(t, 0.7*1.0+0.3*1.0, byID["f-both"].Score, 1e-6)
	assert.InDelta(t, 0.7*0.70710678, byID["f-vector"].Score, 1e-6)
	assert.InDelta(t, 0.3*0.5, byID["f-text"].Score, 1e-6)

	assert.Equal(t, "f-both", results[0].Fact.ID)
}

func TestHybridSearchFusionFormulaAcrossWeights(t *testing.T) {
	store := &fakeStore{
		embedded: []*types.Fact{
			embeddedFact("f-both", "works at Acme", []float32{1, 1}),
		},
		fulltextHits: []*types.ScoredFact{
			{Fact: embeddedFact("f-both", "works at Acme", nil), Score: 0.8, TextScore: 0.8},
		},
	}
	searcher := NewSearcher(store, &fixedEmbedder{vector: []float32{1, 0}}, nil)

	vectorScore := CalculateCosineSimilarity([]float32{1, 0}, []float32{1, 1})
	weights := []struct{ vector, text float64 }{
		{0.7, 0.3},
		{0.5, 0.5},
		{0.9, 0.1},
		{0.2, 0.8},
	}

	for _, w := range weights {
		results, err := searcher.HybridSearch(context.Background(), "Acme", HybridOptions{
			TopK:         5,
			VectorWeight: w.vector,
			TextWeight:   w.text,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, w.vector*vectorScore+w.text*0.8, results[0].Score, 1e-6)
	}
}

func TestCalculateCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CalculateCosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CalculateCosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, CalculateCosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, CalculateCosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
