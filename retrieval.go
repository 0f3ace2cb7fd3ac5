package relato

import (
	"context"
	"fmt"
	"sort"

	"github.com/soundprediction/relato/pkg/search"
	"github.com/soundprediction/relato/pkg/types"
)

// VectorSearchFacts ranks stored facts by cosine similarity to the query.
// Returns ErrNoEmbeddedFacts when no fact in the graph carries an embedding;
// this is stricter than the underlying search.Searcher, which reports the
// empty corpus as an empty result with a message. The typed error lets
// callers tell "nothing embedded yet" apart from "no matches".
func (c *Client) VectorSearchFacts(ctx context.Context, query string, topK int, minSimilarity float64) ([]*types.ScoredFact, error) {
	result, err := c.searcher.VectorSearch(ctx, query, topK, minSimilarity)
	if err != nil {
		return nil, err
	}
	if result.TotalSearched == 0 {
		return nil, fmt.Errorf("%w: add facts or run an embedding backfill", ErrNoEmbeddedFacts)
	}
	return result.Facts, nil
}

// TextSearchFacts runs fulltext search over fact text, optionally restricted
// to one person. Falls back to a substring scan when the index is missing.
func (c *Client) TextSearchFacts(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error) {
	return c.searcher.TextSearch(ctx, query, personFilter, limit)
}

// HybridSearchFacts combines vector and text search with weighted fusion.
func (c *Client) HybridSearchFacts(ctx context.Context, query string, opts search.HybridOptions) ([]*types.ScoredFact, error) {
	return c.searcher.HybridSearch(ctx, query, opts)
}

// SearchPeople finds the people most relevant to a query by aggregating
// hybrid fact matches per person. A person's score favors their single best
// match, then their average quality, then breadth of evidence:
//
//	0.4*max + 0.3*avg + 0.2*min(matches/5, 1.0) + 0.1*total
//
// People with fewer than minFactMatches matching facts are dropped. Each
// result carries its top supporting facts.
func (c *Client) SearchPeople(ctx context.Context, query string, topK, minFactMatches int) ([]*types.PersonMatch, error) {
	if topK <= 0 {
		topK = 5
	}
	if minFactMatches < 1 {
		minFactMatches = 1
	}

	// Generous candidate pool so one strong person cannot crowd out
	// everyone else before grouping.
	poolSize := topK * 5
	if poolSize < 20 {
		poolSize = 20
	}

	hits, err := c.searcher.HybridSearch(ctx, query, search.HybridOptions{
		TopK:          poolSize,
		VectorWeight:  c.config.VectorWeight,
		TextWeight:    c.config.TextWeight,
		MinSimilarity: c.config.MinSimilarity,
	})
	if err != nil {
		return nil, err
	}

	byPerson := make(map[string][]*types.ScoredFact)
	for _, hit := range hits {
		name := hit.Fact.PersonName
		byPerson[name] = append(byPerson[name], hit)
	}

	matches := make([]*types.PersonMatch, 0, len(byPerson))
	for name, facts := range byPerson {
		if len(facts) < minFactMatches {
			continue
		}

		var maxScore, total float64
		for _, sf := range facts {
			if sf.Score > maxScore {
				maxScore = sf.Score
			}
			total += sf.Score
		}
		avg := total / float64(len(facts))
		breadth := float64(len(facts)) / 5.0
		if breadth > 1.0 {
			breadth = 1.0
		}
		score := 0.4*maxScore + 0.3*avg + 0.2*breadth + 0.1*total

		sort.Slice(facts, func(i, j int) bool {
			if facts[i].Score != facts[j].Score {
				return facts[i].Score > facts[j].Score
			}
			return facts[i].Fact.ID < facts[j].Fact.ID
		})
		top := facts
		if len(top) > c.config.TopFactsPerPerson {
			top = top[:c.config.TopFactsPerPerson]
		}

		matches = append(matches, &types.PersonMatch{
			Name:      name,
			Score:     score,
			FactCount: len(facts),
			TopFacts:  top,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
