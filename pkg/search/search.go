package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/soundprediction/relato/pkg/driver"
	"github.com/soundprediction/relato/pkg/embedder"
	"github.com/soundprediction/relato/pkg/types"
)

// Defaults for search operations.
const (
	DefaultTopK          = 10
	DefaultMinSimilarity = 0.2
	DefaultVectorWeight  = 0.7
	DefaultTextWeight    = 0.3

	// FallbackTextScore is assigned to substring-scan matches, which carry
	// no relevance signal of their own.
	FallbackTextScore = 1.0
)

// Store is the slice of the graph driver the searcher needs.
type Store interface {
	driver.FactStore
	driver.FactSearcher
}

// Searcher retrieves facts from the graph by vector similarity, fulltext
// match, or a weighted combination of both.
type Searcher struct {
	store    Store
	embedder embedder.Client
	logger   *slog.Logger
}

// NewSearcher creates a Searcher. The logger may be nil, in which case
// slog.Default is used.
func NewSearcher(store Store, embedderClient embedder.Client, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		store:    store,
		embedder: embedderClient,
		logger:   logger,
	}
}

// VectorResult is the outcome of a vector similarity search.
type VectorResult struct {
	Facts []*types.ScoredFact

	// TotalSearched is the number of embedded facts compared against the
	// query. When it is zero the corpus has no embeddings yet and Message
	// explains the empty result.
	TotalSearched  int
	AboveThreshold int
	Message        string
}

// VectorSearch embeds the query and ranks stored facts by cosine similarity.
// Facts scoring below minSimilarity are discarded; at most topK results are
// returned, best first. Passing topK or minSimilarity as zero or negative
// selects DefaultTopK and DefaultMinSimilarity; an unthresholded search is
// not expressible. An empty corpus is not an error: the result carries an
// explanatory Message instead.
func (s *Searcher) VectorSearch(ctx context.Context, query string, topK int, minSimilarity float64) (*VectorResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	queryVec, err := s.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	facts, err := s.store.FactsWithEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded facts: %w", err)
	}
	if len(facts) == 0 {
		return &VectorResult{
			Facts:   []*types.ScoredFact{},
			Message: "no facts with embeddings found; run a backfill or add facts with embeddings enabled",
		}, nil
	}

	scored := make([]*types.ScoredFact, 0, len(facts))
	for _, fact := range facts {
		score := CalculateCosineSimilarity(queryVec, fact.Embedding)
		if score < minSimilarity {
			continue
		}
		scored = append(scored, &types.ScoredFact{
			Fact:        fact,
			Score:       score,
			VectorScore: score,
		})
	}

	sortScoredFacts(scored)
	above := len(scored)
	if len(scored) > topK {
		scored = scored[:topK]
	}

	return &VectorResult{
		Facts:          scored,
		TotalSearched:  len(facts),
		AboveThreshold: above,
	}, nil
}

// TextSearch runs the database fulltext index over fact text. If the index is
// unavailable it falls back to a case-sensitive substring scan, assigning
// each match FallbackTextScore. An optional person filter restricts results
// to facts owned by that person.
func (s *Searcher) TextSearch(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error) {
	if limit <= 0 {
		limit = DefaultTopK
	}

	results, err := s.store.FulltextSearchFacts(ctx, query, personFilter, limit)
	if err == nil {
		return results, nil
	}
	if !errors.Is(err, driver.ErrIndexUnavailable) {
		return nil, fmt.Errorf("fulltext search failed: %w", err)
	}

	s.logger.Warn("fulltext index unavailable, falling back to substring scan",
		slog.String("query", query))

	facts, err := s.store.ScanFacts(ctx, query, personFilter)
	if err != nil {
		return nil, fmt.Errorf("fact scan failed: %w", err)
	}

	matches := make([]*types.ScoredFact, 0, len(facts))
	for _, fact := range facts {
		matches = append(matches, &types.ScoredFact{
			Fact:      fact,
			Score:     FallbackTextScore,
			TextScore: FallbackTextScore,
		})
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// HybridOptions configures a hybrid search. Zero values select the package
// defaults: TopK and MinSimilarity fall back to DefaultTopK and
// DefaultMinSimilarity, and weights fall back to DefaultVectorWeight and
// DefaultTextWeight when both are zero.
type HybridOptions struct {
	TopK          int
	VectorWeight  float64
	TextWeight    float64
	MinSimilarity float64
}

func (o *HybridOptions) applyDefaults() {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.VectorWeight == 0 && o.TextWeight == 0 {
		o.VectorWeight = DefaultVectorWeight
		o.TextWeight = DefaultTextWeight
	}
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
}

// HybridSearch combines vector and text search. Each strategy contributes a
// candidate pool twice the requested size; candidates are unioned by fact ID
// and rescored as vectorWeight*vector + textWeight*min(text, 1.0). Text
// scores are clamped so fulltext relevance values above 1 cannot drown out
// the vector signal.
func (s *Searcher) HybridSearch(ctx context.Context, query string, opts HybridOptions) ([]*types.ScoredFact, error) {
	opts.applyDefaults()
	poolSize := opts.TopK * 2

	vectorResult, err := s.VectorSearch(ctx, query, poolSize, opts.MinSimilarity)
	if err != nil {
		return nil, err
	}

	textResults, err := s.TextSearch(ctx, query, "", poolSize)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]*types.ScoredFact, len(vectorResult.Facts)+len(textResults))
	for _, sf := range vectorResult.Facts {
		merged[sf.Fact.ID] = &types.ScoredFact{
			Fact:        sf.Fact,
			VectorScore: sf.VectorScore,
		}
	}
	for _, sf := range textResults {
		if existing, ok := merged[sf.Fact.ID]; ok {
			existing.TextScore = sf.TextScore
			continue
		}
		merged[sf.Fact.ID] = &types.ScoredFact{
			Fact:      sf.Fact,
			TextScore: sf.TextScore,
		}
	}

	fused := make([]*types.ScoredFact, 0, len(merged))
	for _, sf := range merged {
		textScore := sf.TextScore
		if textScore > 1.0 {
			textScore = 1.0
		}
		sf.Score = opts.VectorWeight*sf.VectorScore + opts.TextWeight*textScore
		fused = append(fused, sf)
	}

	sortScoredFacts(fused)
	if len(fused) > opts.TopK {
		fused = fused[:opts.TopK]
	}
	return fused, nil
}

// sortScoredFacts orders facts by descending score, breaking ties by fact ID
// so results are deterministic.
func sortScoredFacts(facts []*types.ScoredFact) {
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Score != facts[j].Score {
			return facts[i].Score > facts[j].Score
		}
		return facts[i].Fact.ID < facts[j].Fact.ID
	})
}
