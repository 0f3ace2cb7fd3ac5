package types

import "time"

// Person is a node in the graph identified by its exact name. People are never
// merged by fuzzy match; partial-name lookup is a read-only search, not an
// identity operation.
type Person struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	// Populated by reads that include connections.
	Facts    []*Fact         `json:"facts,omitempty"`
	Entities []*Entity       `json:"entities,omitempty"`
	Related  []*Relationship `json:"related,omitempty"`
}

// Fact is a single piece of information owned by exactly one person. Its text
// is immutable once created; only the category and existence can change.
type Fact struct {
	ID         string    `json:"id"`
	PersonName string    `json:"person_name"`
	Text       string    `json:"text"`
	Category   string    `json:"category"`
	Embedding  []float32 `json:"embedding,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// HasEmbedding reports whether a usable embedding is stored on the fact.
// A zero vector is the placeholder written when the embedding provider
// failed, so it counts as missing.
func (f *Fact) HasEmbedding() bool {
	for _, v := range f.Embedding {
		if v != 0 {
			return true
		}
	}
	return false
}

// Entity is an extracted concept (organization, place, ...) shared across
// people. (Name, Type) is the composite identity key.
type Entity struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// RelationshipType classifies a RELATED_TO edge between two people.
type RelationshipType string

const (
	RelSpouse       RelationshipType = "SPOUSE"
	RelSibling      RelationshipType = "SIBLING"
	RelParent       RelationshipType = "PARENT"
	RelChild        RelationshipType = "CHILD"
	RelFamily       RelationshipType = "FAMILY"
	RelColleague    RelationshipType = "COLLEAGUE"
	RelProfessional RelationshipType = "PROFESSIONAL"
	RelFriend       RelationshipType = "FRIEND"
	RelRomantic     RelationshipType = "ROMANTIC"
	RelRelated      RelationshipType = "RELATED"
)

// Relationship is one direction of a bidirectional RELATED_TO edge pair. The
// merge key is (From, To, Type): re-asserting an existing relationship bumps
// LastConfirmedAt instead of duplicating the edge.
type Relationship struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Type            RelationshipType `json:"type"`
	ViaFact         string           `json:"via_fact"`
	CreatedAt       time.Time        `json:"created_at"`
	LastConfirmedAt time.Time        `json:"last_confirmed_at,omitempty"`
	AutoDetected    bool             `json:"auto_detected,omitempty"`
}

// ScoredFact is a fact-level search hit. VectorScore and TextScore hold the
// per-method contributions; Score is the method score or the fused hybrid
// score depending on which search produced it.
type ScoredFact struct {
	Fact        *Fact   `json:"fact"`
	Score       float64 `json:"score"`
	VectorScore float64 `json:"vector_score,omitempty"`
	TextScore   float64 `json:"text_score,omitempty"`
}

// PersonMatch is a person-level search result with its supporting facts.
type PersonMatch struct {
	Name      string        `json:"name"`
	Score     float64       `json:"score"`
	FactCount int           `json:"fact_count"`
	TopFacts  []*ScoredFact `json:"top_facts,omitempty"`
}

// GraphStats summarizes the current graph contents.
type GraphStats struct {
	People      int64 `json:"people"`
	Facts       int64 `json:"facts"`
	Entities    int64 `json:"entities"`
	Connections int64 `json:"connections"`
}
