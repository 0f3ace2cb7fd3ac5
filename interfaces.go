package relato

import (
	"context"

	"github.com/soundprediction/relato/pkg/search"
	"github.com/soundprediction/relato/pkg/types"
)

// PersonManager provides person CRUD over the graph.
type PersonManager interface {
	AddPerson(ctx context.Context, name string, properties map[string]any) (*types.Person, error)
	UpdatePersonProperties(ctx context.Context, name string, properties map[string]any) (*types.Person, error)
	GetPerson(ctx context.Context, name string) (*types.Person, error)
	FindPeople(ctx context.Context, partialName string) ([]*types.Person, error)
	GetAllPeople(ctx context.Context) ([]*types.Person, error)
	DeletePerson(ctx context.Context, name string) error
	GetRelationships(ctx context.Context, name string) ([]*types.Relationship, error)
}

// FactManager provides fact ingestion and maintenance.
type FactManager interface {
	AddFact(ctx context.Context, personName, text, category string) (*FactResult, error)
	BackfillEmbeddings(ctx context.Context) (updated, failed int, err error)
	DeleteFact(ctx context.Context, personName string, ordinal int) (*types.Fact, error)
	DeleteAllFacts(ctx context.Context, personName string) (int64, error)
	UpdateFactCategory(ctx context.Context, personName string, ordinal int, newCategory string) (*types.Fact, error)
	GetFacts(ctx context.Context, personName string) ([]*types.Fact, error)
	GetFactsByCategory(ctx context.Context, personName, category string) ([]*types.Fact, error)
}

// FactFinder provides fact and person search.
type FactFinder interface {
	VectorSearchFacts(ctx context.Context, query string, topK int, minSimilarity float64) ([]*types.ScoredFact, error)
	TextSearchFacts(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error)
	HybridSearchFacts(ctx context.Context, query string, opts search.HybridOptions) ([]*types.ScoredFact, error)
	SearchPeople(ctx context.Context, query string, topK, minFactMatches int) ([]*types.PersonMatch, error)
}

// Engine is the full engine surface implemented by Client. Consumers should
// depend on the smallest of the composed interfaces that meets their needs.
type Engine interface {
	PersonManager
	FactManager
	FactFinder

	Stats(ctx context.Context) (*types.GraphStats, error)
	CreateIndices(ctx context.Context) error
	Close(ctx context.Context) error
}

var _ Engine = (*Client)(nil)
