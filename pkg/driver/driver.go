package driver

import (
	"context"
	"errors"
	"time"

	"github.com/soundprediction/relato/pkg/types"
)

var (
	// ErrNotFound is returned when a requested node does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIndexUnavailable is returned by FulltextSearchFacts when the
	// fulltext index has not been created on the store.
	ErrIndexUnavailable = errors.New("fulltext index unavailable")
)

// PersonStore provides operations on Person nodes.
type PersonStore interface {
	// UpsertPerson merges a person by exact name. An existing person is
	// updated in place, never duplicated.
	UpsertPerson(ctx context.Context, name string, properties map[string]any) (*types.Person, error)

	// GetPerson retrieves a person by exact name, including facts,
	// connected entities and related people. Returns ErrNotFound.
	GetPerson(ctx context.Context, name string) (*types.Person, error)

	// PersonExists reports whether a person with the exact name exists.
	PersonExists(ctx context.Context, name string) (bool, error)

	// FindPeople retrieves people whose name contains the given substring.
	// Read-only lookup; it never establishes identity.
	FindPeople(ctx context.Context, partialName string) ([]*types.Person, error)

	// GetAllPeople lists every person, ordered by name.
	GetAllPeople(ctx context.Context) ([]*types.Person, error)

	// DeletePerson removes a person and all of their edges.
	DeletePerson(ctx context.Context, name string) error
}

// FactStore provides operations on Fact nodes.
type FactStore interface {
	// CreateFact persists a new fact linked to its owning person.
	CreateFact(ctx context.Context, fact *types.Fact) error

	// ListFacts returns a person's facts ordered by creation time.
	ListFacts(ctx context.Context, personName string) ([]*types.Fact, error)

	// GetFactsByCategory returns facts filtered by person and/or category.
	// Empty arguments match everything.
	GetFactsByCategory(ctx context.Context, personName, category string) ([]*types.Fact, error)

	// FactsWithEmbeddings returns every fact carrying an embedding.
	FactsWithEmbeddings(ctx context.Context) ([]*types.Fact, error)

	// FactsMissingEmbeddings returns every fact without an embedding.
	FactsMissingEmbeddings(ctx context.Context) ([]*types.Fact, error)

	// SetFactEmbedding stores an embedding on an existing fact.
	SetFactEmbedding(ctx context.Context, factID string, embedding []float32) error

	// SetFactCategory updates the category of an existing fact.
	SetFactCategory(ctx context.Context, factID, category string) error

	// DeleteFact removes a fact node and its edges by id.
	DeleteFact(ctx context.Context, factID string) error

	// DeleteAllFacts removes every fact owned by a person, keeping the
	// person node, and returns the number deleted.
	DeleteAllFacts(ctx context.Context, personName string) (int64, error)

	// RecentMatchingFacts returns facts with identical text and category
	// created at or after since, excluding those owned by excludePerson.
	RecentMatchingFacts(ctx context.Context, text, category string, since time.Time, excludePerson string) ([]*types.Fact, error)
}

// EntityStore provides operations on Entity nodes and their person links.
type EntityStore interface {
	// GetEntity retrieves an entity by its (name, type) key. Returns
	// ErrNotFound.
	GetEntity(ctx context.Context, name, entityType string) (*types.Entity, error)

	// CreateEntity persists a new entity node.
	CreateEntity(ctx context.Context, entity *types.Entity) error

	// ConnectEntity merges a CONNECTED_TO edge from person to entity
	// tagged with the originating fact id. Repeated mentions update the
	// tag rather than duplicating the edge.
	ConnectEntity(ctx context.Context, personName string, entity *types.Entity, viaFactID string) error
}

// RelationshipStore provides operations on inter-person RELATED_TO edges.
type RelationshipStore interface {
	// MergeRelationship merges the bidirectional edge pair for rel. The
	// merge key is (from, to, type); an existing pair gets its
	// last_confirmed_at bumped instead of a duplicate edge.
	MergeRelationship(ctx context.Context, rel *types.Relationship) error

	// GetRelationships returns the outgoing relationships of a person.
	GetRelationships(ctx context.Context, personName string) ([]*types.Relationship, error)
}

// FactSearcher provides lexical retrieval over fact text.
type FactSearcher interface {
	// FulltextSearchFacts queries the fulltext index over fact text,
	// optionally restricted to one person, returning relevance-scored
	// hits ordered by score. Returns ErrIndexUnavailable when the index
	// does not exist.
	FulltextSearchFacts(ctx context.Context, query, personFilter string, limit int) ([]*types.ScoredFact, error)

	// ScanFacts performs a case-sensitive substring scan over fact text.
	// Fallback path when the fulltext index is unavailable; results carry
	// no relevance score.
	ScanFacts(ctx context.Context, substring, personFilter string) ([]*types.Fact, error)
}

// Admin provides schema setup and statistics.
type Admin interface {
	// CreateIndices creates the uniqueness constraints, property indexes
	// and the fulltext index. Safe to call repeatedly.
	CreateIndices(ctx context.Context) error

	// Stats returns node and connection counts for the whole graph.
	Stats(ctx context.Context) (*types.GraphStats, error)
}

// GraphDriver is the full driver surface. Consumers should depend on the
// smallest of the composed interfaces that meets their needs.
type GraphDriver interface {
	PersonStore
	FactStore
	EntityStore
	RelationshipStore
	FactSearcher
	Admin

	// Close releases all resources held by the driver.
	Close(ctx context.Context) error
}
